package postgres

import (
	"context"
	"database/sql"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
)

type statisticsRepository struct {
	db *sql.DB
}

func NewStatisticsRepository(db *sql.DB) repository.StatisticsRepository {
	return &statisticsRepository{db: db}
}

// $1 is always the property, 0 for all of them.
const (
	sejourScope  = `($1::integer = 0 OR s.etablissement_id = $1::integer)`
	periodFilter = `s.date_arrivee >= $2::date AND s.date_depart <= $3::date AND s.statut <> 'cancelled'`
)

func (r *statisticsRepository) Global(ctx context.Context, etablissementID int32) (*domain.GlobalStats, error) {
	query := `SELECT
	          (SELECT COUNT(*) FROM sejours s WHERE ` + sejourScope + `),
	          (SELECT COUNT(DISTINCT p.id) FROM personnes p JOIN sejours s ON s.id = p.sejour_id WHERE ` + sejourScope + `),
	          (SELECT COUNT(*) FROM etablissements e WHERE e.actif AND ($1::integer = 0 OR e.id = $1::integer)),
	          (SELECT COUNT(*) FROM chambres c WHERE ($1::integer = 0 OR c.etablissement_id = $1::integer))`

	logger.DatabaseCall("SELECT", "statistics.global", "etablissement_id", etablissementID)
	g := &domain.GlobalStats{}
	err := r.db.QueryRowContext(ctx, query, etablissementID).
		Scan(&g.TotalSejours, &g.TotalClients, &g.TotalEtablissements, &g.TotalChambres)
	logger.DatabaseResult("SELECT", 1, err, "query", "statistics.global")
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Occupancy counts each (stay, room) pair once, whatever the number of
// occupants sharing the room.
func (r *statisticsRepository) Occupancy(ctx context.Context, f domain.StatsFilter) (*domain.OccupancyStats, error) {
	query := `SELECT
	          (SELECT COUNT(*) FROM chambres c WHERE ($1::integer = 0 OR c.etablissement_id = $1::integer)),
	          COUNT(DISTINCT o.chambre_id),
	          COALESCE(SUM(o.date_depart - o.date_arrivee), 0)
	          FROM (
	              SELECT DISTINCT s.id, p.chambre_id, s.date_arrivee, s.date_depart
	              FROM personnes p
	              JOIN sejours s ON s.id = p.sejour_id
	              JOIN chambres c ON c.id = p.chambre_id
	              WHERE ($1::integer = 0 OR c.etablissement_id = $1::integer) AND ` + periodFilter + `
	          ) o`

	logger.DatabaseCall("SELECT", "statistics.occupancy", "etablissement_id", f.EtablissementID)
	o := &domain.OccupancyStats{DateDebut: f.DateDebut, DateFin: f.DateFin}
	err := r.db.QueryRowContext(ctx, query, f.EtablissementID, f.DateDebut, f.DateFin).
		Scan(&o.TotalChambres, &o.ChambresOccupees, &o.TotalNuits)
	logger.DatabaseResult("SELECT", 1, err, "query", "statistics.occupancy")
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *statisticsRepository) Revenue(ctx context.Context, f domain.StatsFilter) (*domain.RevenueStats, error) {
	query := `SELECT
	          COALESCE(SUM(s.facture_hebergement), 0),
	          COALESCE(SUM(s.charge_plateforme), 0),
	          COALESCE(SUM(s.taxe_sejour), 0),
	          COALESCE((SELECT SUM(se.montant_total) FROM sejour_extras se JOIN sejours s ON s.id = se.sejour_id
	                    WHERE ` + sejourScope + ` AND ` + periodFilter + `), 0)
	          FROM sejours s
	          WHERE ` + sejourScope + ` AND ` + periodFilter

	logger.DatabaseCall("SELECT", "statistics.revenue", "etablissement_id", f.EtablissementID)
	rev := &domain.RevenueStats{DateDebut: f.DateDebut, DateFin: f.DateFin}
	err := r.db.QueryRowContext(ctx, query, f.EtablissementID, f.DateDebut, f.DateFin).
		Scan(&rev.TotalHebergement, &rev.TotalCharges, &rev.TotalTaxes, &rev.TotalExtras)
	logger.DatabaseResult("SELECT", 1, err, "query", "statistics.revenue")
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *statisticsRepository) TopCountries(ctx context.Context, etablissementID int32, limit int32) ([]domain.CountryStat, error) {
	query := `SELECT p.pays, COUNT(*), COUNT(DISTINCT p.sejour_id)
	          FROM personnes p JOIN sejours s ON s.id = p.sejour_id
	          WHERE ` + sejourScope + ` AND COALESCE(p.pays, '') <> ''
	          GROUP BY p.pays
	          ORDER BY 2 DESC, p.pays
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, etablissementID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.CountryStat{}
	for rows.Next() {
		var c domain.CountryStat
		if err := rows.Scan(&c.Pays, &c.NombreVisiteurs, &c.NombreSejours); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *statisticsRepository) SejoursByOccupants(ctx context.Context, etablissementID int32, limit int32) ([]domain.SejourRanking, error) {
	return r.ranking(ctx, `COUNT(p.id)`, etablissementID, limit)
}

func (r *statisticsRepository) SejoursByRooms(ctx context.Context, etablissementID int32, limit int32) ([]domain.SejourRanking, error) {
	return r.ranking(ctx, `COUNT(DISTINCT p.chambre_id)`, etablissementID, limit)
}

// ranking orders the stays by an aggregate over their occupants.
func (r *statisticsRepository) ranking(ctx context.Context, measure string, etablissementID int32, limit int32) ([]domain.SejourRanking, error) {
	query := `SELECT s.id, s.numero_reservation, to_char(s.date_arrivee, 'YYYY-MM-DD'), to_char(s.date_depart, 'YYYY-MM-DD'),
	          e.nom_etablissement, ` + measure + `
	          FROM sejours s
	          JOIN etablissements e ON e.id = s.etablissement_id
	          LEFT JOIN personnes p ON p.sejour_id = s.id
	          WHERE ` + sejourScope + `
	          GROUP BY s.id, e.nom_etablissement
	          ORDER BY 6 DESC, s.id
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, etablissementID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.SejourRanking{}
	for rows.Next() {
		var s domain.SejourRanking
		if err := rows.Scan(&s.ID, &s.NumeroReservation, &s.DateArrivee, &s.DateDepart, &s.NomEtablissement, &s.Nombre); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *statisticsRepository) MonthlyTrends(ctx context.Context, etablissementID int32, since string) ([]domain.MonthlyTrend, error) {
	query := `SELECT to_char(s.date_arrivee, 'YYYY-MM'), COUNT(*), COALESCE(SUM(s.facture_hebergement), 0)
	          FROM sejours s
	          WHERE ` + sejourScope + ` AND s.date_arrivee >= $2::date AND s.statut <> 'cancelled'
	          GROUP BY 1
	          ORDER BY 1 DESC`
	rows, err := r.db.QueryContext(ctx, query, etablissementID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.MonthlyTrend{}
	for rows.Next() {
		var t domain.MonthlyTrend
		if err := rows.Scan(&t.Mois, &t.NombreSejours, &t.Revenu); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
