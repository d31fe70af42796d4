package postgres_test

import (
	"context"
	"testing"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatisticsRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewStatisticsRepository(db)
	ctx := context.Background()

	t.Run("Global", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM sejours s WHERE \\(\\$1::integer = 0 OR s.etablissement_id = \\$1::integer\\)").
			WithArgs(int32(0)).
			WillReturnRows(sqlmock.NewRows([]string{"s", "c", "e", "ch"}).AddRow(42, 97, 3, 18))

		g, err := repo.Global(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, &domain.GlobalStats{TotalSejours: 42, TotalClients: 97, TotalEtablissements: 3, TotalChambres: 18}, g)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Occupancy counts distinct stay and room pairs", func(t *testing.T) {
		f := domain.StatsFilter{EtablissementID: 2, DateDebut: "2024-07-01", DateFin: "2024-07-31"}
		mock.ExpectQuery("SELECT DISTINCT s.id, p.chambre_id, (.+) s.date_arrivee >= \\$2::date AND s.date_depart <= \\$3::date").
			WithArgs(int32(2), "2024-07-01", "2024-07-31").
			WillReturnRows(sqlmock.NewRows([]string{"total", "occupees", "nuits"}).AddRow(6, 4, 37))

		o, err := repo.Occupancy(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(6), o.TotalChambres)
		assert.Equal(t, int64(4), o.ChambresOccupees)
		assert.Equal(t, int64(37), o.TotalNuits)
		assert.Equal(t, "2024-07-01", o.DateDebut)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Revenue", func(t *testing.T) {
		f := domain.StatsFilter{DateDebut: "2024-07-01", DateFin: "2024-07-31"}
		mock.ExpectQuery("SELECT COALESCE\\(SUM\\(s.facture_hebergement\\), 0\\)(.+)FROM sejour_extras se").
			WithArgs(int32(0), "2024-07-01", "2024-07-31").
			WillReturnRows(sqlmock.NewRows([]string{"h", "c", "t", "x"}).AddRow("1500.00", "75.50", "40.00", "210.25"))

		rev, err := repo.Revenue(ctx, f)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1500").Equal(rev.TotalHebergement))
		assert.True(t, decimal.RequireFromString("75.5").Equal(rev.TotalCharges))
		assert.True(t, decimal.RequireFromString("40").Equal(rev.TotalTaxes))
		assert.True(t, decimal.RequireFromString("210.25").Equal(rev.TotalExtras))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ranking by rooms", func(t *testing.T) {
		mock.ExpectQuery("SELECT s.id, (.+), COUNT\\(DISTINCT p.chambre_id\\) (.+) LIMIT \\$2").
			WithArgs(int32(1), int32(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "numero", "arrivee", "depart", "etab", "n"}).
				AddRow(8, "RES-0008", "2024-07-02", "2024-07-09", "Riad Atlas", 3).
				AddRow(3, "RES-0003", "2024-06-10", "2024-06-12", "Riad Atlas", 1))

		list, err := repo.SejoursByRooms(ctx, 1, 5)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(3), list[0].Nombre)
		assert.Equal(t, "Riad Atlas", list[1].NomEtablissement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No countries is an empty list", func(t *testing.T) {
		mock.ExpectQuery("SELECT p.pays, COUNT\\(\\*\\), COUNT\\(DISTINCT p.sejour_id\\)").
			WithArgs(int32(0), int32(10)).
			WillReturnRows(sqlmock.NewRows([]string{"pays", "visiteurs", "sejours"}))

		list, err := repo.TopCountries(ctx, 0, 10)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Monthly trends", func(t *testing.T) {
		mock.ExpectQuery("SELECT to_char\\(s.date_arrivee, 'YYYY-MM'\\)(.+)s.date_arrivee >= \\$2::date").
			WithArgs(int32(0), "2024-01-01").
			WillReturnRows(sqlmock.NewRows([]string{"mois", "n", "revenu"}).AddRow("2024-07", 12, "4200.50"))

		list, err := repo.MonthlyTrends(ctx, 0, "2024-01-01")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "2024-07", list[0].Mois)
		assert.True(t, decimal.RequireFromString("4200.5").Equal(list[0].Revenu))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
