package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
)

type calendarRepository struct {
	db *sql.DB
}

func NewCalendarRepository(db *sql.DB) repository.CalendarRepository {
	return &calendarRepository{db: db}
}

const calendarSelect = `SELECT c.id, c.etablissement_id, COALESCE(e.nom_etablissement, ''), c.nom, COALESCE(c.plateforme, ''),
	c.ical_url, c.actif, c.derniere_synchronisation, COALESCE(c.statut_derniere_synchro, ''), COALESCE(c.message_erreur, '')
	FROM calendriers_ical c LEFT JOIN etablissements e ON e.id = c.etablissement_id`

func scanCalendar(row interface{ Scan(...any) error }, c *domain.CalendrierIcal) error {
	return row.Scan(&c.ID, &c.EtablissementID, &c.NomEtablissement, &c.Nom, &c.Plateforme,
		&c.IcalURL, &c.Actif, &c.DerniereSynchronisation, &c.StatutDerniereSynchro, &c.MessageErreur)
}

func (r *calendarRepository) Create(ctx context.Context, c *domain.CalendrierIcal) error {
	query := `INSERT INTO calendriers_ical (etablissement_id, nom, plateforme, ical_url, actif) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.EtablissementID, c.Nom, c.Plateforme, c.IcalURL, c.Actif).Scan(&c.ID)
}

func (r *calendarRepository) GetByID(ctx context.Context, id int32) (*domain.CalendrierIcal, error) {
	c := &domain.CalendrierIcal{}
	if err := scanCalendar(r.db.QueryRowContext(ctx, calendarSelect+` WHERE c.id = $1`, id), c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *calendarRepository) List(ctx context.Context, etablissementID int32) ([]domain.CalendrierIcal, error) {
	return r.query(ctx, calendarSelect+` WHERE ($1 = 0 OR c.etablissement_id = $1) ORDER BY c.nom`, etablissementID)
}

func (r *calendarRepository) ListActive(ctx context.Context) ([]domain.CalendrierIcal, error) {
	return r.query(ctx, calendarSelect+` WHERE c.actif = TRUE ORDER BY c.id`)
}

func (r *calendarRepository) query(ctx context.Context, query string, args ...any) ([]domain.CalendrierIcal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.CalendrierIcal
	for rows.Next() {
		var c domain.CalendrierIcal
		if err := scanCalendar(rows, &c); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *calendarRepository) Update(ctx context.Context, c *domain.CalendrierIcal) error {
	query := `UPDATE calendriers_ical SET etablissement_id=$1, nom=$2, plateforme=$3, ical_url=$4, actif=$5 WHERE id=$6`
	res, err := r.db.ExecContext(ctx, query, c.EtablissementID, c.Nom, c.Plateforme, c.IcalURL, c.Actif, c.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *calendarRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendriers_ical WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *calendarRepository) UpdateSyncStatus(ctx context.Context, id int32, status domain.SyncStatus, message string) error {
	query := `UPDATE calendriers_ical SET derniere_synchronisation = CURRENT_TIMESTAMP, statut_derniere_synchro = $1, message_erreur = NULLIF($2, '') WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, message, id)
	return err
}

// UpsertReservations inserts or refreshes imported events keyed by uid_ical.
func (r *calendarRepository) UpsertReservations(ctx context.Context, calendrierID int32, reservations []domain.ReservationIcal) (int, error) {
	logger.DatabaseCall("UPSERT", "reservations_ical", "calendrier_id", calendrierID, "count", len(reservations))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := `INSERT INTO reservations_ical (calendrier_id, uid_ical, titre, date_debut, date_fin, description)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (uid_ical) DO UPDATE SET
	              calendrier_id = EXCLUDED.calendrier_id, titre = EXCLUDED.titre, date_debut = EXCLUDED.date_debut,
	              date_fin = EXCLUDED.date_fin, description = EXCLUDED.description, updated_at = CURRENT_TIMESTAMP`
	count := 0
	for _, res := range reservations {
		if _, err := tx.ExecContext(ctx, query, calendrierID, res.UIDIcal, res.Titre, res.DateDebut, res.DateFin, res.Description); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", res.UIDIcal, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	logger.DatabaseResult("UPSERT", int64(count), nil, "table", "reservations_ical")
	return count, nil
}

func (r *calendarRepository) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.ReservationIcal, error) {
	var (
		conds []string
		args  []any
	)
	if filter.CalendrierID != 0 {
		args = append(args, filter.CalendrierID)
		conds = append(conds, fmt.Sprintf("r.calendrier_id = $%d", len(args)))
	}
	if filter.EtablissementID != 0 {
		args = append(args, filter.EtablissementID)
		conds = append(conds, fmt.Sprintf("c.etablissement_id = $%d", len(args)))
	}
	if filter.DateDebut != "" {
		args = append(args, filter.DateDebut)
		conds = append(conds, fmt.Sprintf("r.date_fin >= $%d", len(args)))
	}
	if filter.DateFin != "" {
		args = append(args, filter.DateFin)
		conds = append(conds, fmt.Sprintf("r.date_debut <= $%d", len(args)))
	}

	query := `SELECT r.id, r.calendrier_id, c.nom, COALESCE(c.plateforme, ''), r.uid_ical, COALESCE(r.titre, ''),
	          to_char(r.date_debut, 'YYYY-MM-DD'), to_char(r.date_fin, 'YYYY-MM-DD'), COALESCE(r.description, '')
	          FROM reservations_ical r JOIN calendriers_ical c ON c.id = r.calendrier_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY r.date_debut"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.ReservationIcal
	for rows.Next() {
		var res domain.ReservationIcal
		if err := rows.Scan(&res.ID, &res.CalendrierID, &res.CalendrierNom, &res.Plateforme, &res.UIDIcal, &res.Titre,
			&res.DateDebut, &res.DateFin, &res.Description); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}
