package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
)

// The principal contact is the first personne flagged est_contact_principal,
// or the first personne when none is flagged.
const sejourSelect = `SELECT s.id, s.numero_reservation, s.etablissement_id, COALESCE(e.nom_etablissement, ''),
	to_char(s.date_arrivee, 'YYYY-MM-DD'), to_char(s.date_depart, 'YYYY-MM-DD'), s.nombre_jours,
	s.facture_hebergement, s.charge_plateforme, s.taxe_sejour, s.statut, s.closed_at, COALESCE(s.closed_by, ''),
	COALESCE(s.notes, ''), COALESCE(p.nom, ''), COALESCE(p.prenom, ''), COALESCE(p.email, ''), COALESCE(p.telephone, ''),
	s.created_at, s.updated_at
	FROM sejours s
	LEFT JOIN etablissements e ON e.id = s.etablissement_id
	LEFT JOIN LATERAL (
		SELECT nom, prenom, email, telephone FROM personnes
		WHERE sejour_id = s.id ORDER BY est_contact_principal DESC, id LIMIT 1
	) p ON TRUE`

type sejourRepository struct {
	db *sql.DB
}

func NewSejourRepository(db *sql.DB) repository.SejourRepository {
	return &sejourRepository{db: db}
}

func scanSejour(row interface{ Scan(...any) error }, s *domain.Sejour) error {
	return row.Scan(&s.ID, &s.NumeroReservation, &s.EtablissementID, &s.NomEtablissement,
		&s.DateArrivee, &s.DateDepart, &s.NombreJours,
		&s.FactureHebergement, &s.ChargePlateforme, &s.TaxeSejour, &s.Statut, &s.ClosedAt, &s.ClosedBy,
		&s.Notes, &s.ContactNom, &s.ContactPrenom, &s.ContactEmail, &s.ContactTelephone,
		&s.CreatedAt, &s.UpdatedAt)
}

func (r *sejourRepository) Create(ctx context.Context, s *domain.Sejour) error {
	if s.Statut == "" {
		s.Statut = domain.SejourStatusActive
	}
	query := `INSERT INTO sejours (numero_reservation, etablissement_id, date_arrivee, date_depart, nombre_jours, facture_hebergement, charge_plateforme, taxe_sejour, statut, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`
	logger.DatabaseCall("INSERT", "sejours", "numero_reservation", s.NumeroReservation)
	err := r.db.QueryRowContext(ctx, query, s.NumeroReservation, s.EtablissementID, s.DateArrivee, s.DateDepart, s.NombreJours,
		s.FactureHebergement, s.ChargePlateforme, s.TaxeSejour, s.Statut, s.Notes).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "table", "sejours")
	return err
}

func (r *sejourRepository) GetByID(ctx context.Context, id int32) (*domain.Sejour, error) {
	s := &domain.Sejour{}
	if err := scanSejour(r.db.QueryRowContext(ctx, sejourSelect+` WHERE s.id = $1`, id), s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sejourRepository) List(ctx context.Context, filter domain.SejourFilter) ([]domain.Sejour, error) {
	var (
		conds []string
		args  []any
	)
	if filter.EtablissementID != 0 {
		args = append(args, filter.EtablissementID)
		conds = append(conds, fmt.Sprintf("s.etablissement_id = $%d", len(args)))
	}
	if filter.Statut != "" {
		args = append(args, filter.Statut)
		conds = append(conds, fmt.Sprintf("s.statut = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(s.numero_reservation ILIKE $%d OR p.nom ILIKE $%d OR p.prenom ILIKE $%d)", n, n, n))
	}

	query := sejourSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.date_arrivee DESC, s.id DESC"

	return r.query(ctx, query, args...)
}

func (r *sejourRepository) ListActiveDepartedBefore(ctx context.Context, date string) ([]domain.Sejour, error) {
	query := sejourSelect + ` WHERE s.statut = 'active' AND s.closed_at IS NULL AND s.date_depart < $1 ORDER BY s.date_depart`
	return r.query(ctx, query, date)
}

func (r *sejourRepository) query(ctx context.Context, query string, args ...any) ([]domain.Sejour, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sejours []domain.Sejour
	for rows.Next() {
		var s domain.Sejour
		if err := scanSejour(rows, &s); err != nil {
			return nil, err
		}
		sejours = append(sejours, s)
	}
	return sejours, rows.Err()
}

func (r *sejourRepository) Update(ctx context.Context, s *domain.Sejour) error {
	query := `UPDATE sejours SET numero_reservation=$1, etablissement_id=$2, date_arrivee=$3, date_depart=$4, nombre_jours=$5,
	          facture_hebergement=$6, charge_plateforme=$7, taxe_sejour=$8, statut=$9, notes=$10, updated_at=CURRENT_TIMESTAMP
	          WHERE id=$11`
	res, err := r.db.ExecContext(ctx, query, s.NumeroReservation, s.EtablissementID, s.DateArrivee, s.DateDepart, s.NombreJours,
		s.FactureHebergement, s.ChargePlateforme, s.TaxeSejour, s.Statut, s.Notes, s.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *sejourRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sejours WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Close marks an open stay closed. It returns sql.ErrNoRows when the stay is
// missing or already closed.
func (r *sejourRepository) Close(ctx context.Context, id int32, closedBy string) (time.Time, error) {
	var closedAt time.Time
	query := `UPDATE sejours SET statut = 'closed', closed_at = CURRENT_TIMESTAMP, closed_by = $2, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1 AND statut NOT IN ('closed', 'terminated') AND closed_at IS NULL
	          RETURNING closed_at`
	logger.DatabaseCall("UPDATE", "sejours.close", "sejour_id", id)
	err := r.db.QueryRowContext(ctx, query, id, closedBy).Scan(&closedAt)
	logger.DatabaseResult("UPDATE", 1, err, "table", "sejours")
	return closedAt, err
}
