package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChambreRepository_UpdateDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewChambreRepository(db)
	ctx := context.Background()

	t.Run("Update", func(t *testing.T) {
		c := &domain.Chambre{ID: 12, Nom: "Suite", Capacite: 3, PrixParNuit: decimal.RequireFromString("120"), Statut: domain.ChambreStatusDisponible}
		mock.ExpectExec("UPDATE chambres SET nom = \\$1, (.+) WHERE id = \\$6").
			WithArgs("Suite", "", int32(3), sqlmock.AnyArg(), "disponible", int32(12)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(ctx, c))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Update of a missing room", func(t *testing.T) {
		mock.ExpectExec("UPDATE chambres SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &domain.Chambre{ID: 99, Nom: "X"})
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM chambres WHERE id = \\$1").
			WithArgs(int32(12)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, 12))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Available rooms exclude overlapping stays", func(t *testing.T) {
		mock.ExpectQuery("NOT EXISTS \\((.+)s.date_arrivee < \\$3::date AND s.date_depart > \\$2::date").
			WithArgs(int32(2), "2024-07-01", "2024-07-05").
			WillReturnRows(sqlmock.NewRows([]string{"id", "etablissement_id", "nom", "description", "capacite", "prix_par_nuit", "statut"}).
				AddRow(3, 2, "Atlas", "", 2, "80.00", "disponible"))

		list, err := repo.ListAvailable(ctx, 2, "2024-07-01", "2024-07-05")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Atlas", list[0].Nom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
