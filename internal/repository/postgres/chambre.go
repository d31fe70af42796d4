package postgres

import (
	"context"
	"database/sql"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
)

type chambreRepository struct {
	db *sql.DB
}

func NewChambreRepository(db *sql.DB) repository.ChambreRepository {
	return &chambreRepository{db: db}
}

func (r *chambreRepository) Create(ctx context.Context, c *domain.Chambre) error {
	if c.Statut == "" {
		c.Statut = domain.ChambreStatusDisponible
	}
	query := `INSERT INTO chambres (etablissement_id, nom, description, capacite, prix_par_nuit, statut)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.EtablissementID, c.Nom, c.Description, c.Capacite, c.PrixParNuit, c.Statut).Scan(&c.ID)
}

func (r *chambreRepository) List(ctx context.Context, etablissementID int32) ([]domain.Chambre, error) {
	query := `SELECT id, etablissement_id, nom, COALESCE(description, ''), capacite, prix_par_nuit, statut
	          FROM chambres WHERE ($1 = 0 OR etablissement_id = $1) ORDER BY nom`
	return r.query(ctx, query, etablissementID)
}

// ListBySejour returns the rooms assigned to the occupants of a stay.
func (r *chambreRepository) ListBySejour(ctx context.Context, sejourID int32) ([]domain.Chambre, error) {
	query := `SELECT DISTINCT c.id, c.etablissement_id, c.nom, COALESCE(c.description, ''), c.capacite, c.prix_par_nuit, c.statut
	          FROM chambres c JOIN personnes p ON p.chambre_id = c.id
	          WHERE p.sejour_id = $1 ORDER BY c.nom`
	return r.query(ctx, query, sejourID)
}

// ListAvailable returns the rooms in service with no occupant in a
// non-cancelled stay overlapping [dateDebut, dateFin). A stay departing on
// dateDebut does not hold its room.
func (r *chambreRepository) ListAvailable(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.Chambre, error) {
	query := `SELECT c.id, c.etablissement_id, c.nom, COALESCE(c.description, ''), c.capacite, c.prix_par_nuit, c.statut
	          FROM chambres c
	          WHERE c.statut = 'disponible' AND ($1::integer = 0 OR c.etablissement_id = $1::integer)
	          AND NOT EXISTS (
	              SELECT 1 FROM personnes p JOIN sejours s ON s.id = p.sejour_id
	              WHERE p.chambre_id = c.id AND s.statut <> 'cancelled'
	              AND s.date_arrivee < $3::date AND s.date_depart > $2::date
	          )
	          ORDER BY c.nom`
	return r.query(ctx, query, etablissementID, dateDebut, dateFin)
}

func (r *chambreRepository) GetByID(ctx context.Context, id int32) (*domain.Chambre, error) {
	query := `SELECT id, etablissement_id, nom, COALESCE(description, ''), capacite, prix_par_nuit, statut
	          FROM chambres WHERE id = $1`
	c := &domain.Chambre{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.EtablissementID, &c.Nom, &c.Description, &c.Capacite, &c.PrixParNuit, &c.Statut)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update leaves the owning property unchanged.
func (r *chambreRepository) Update(ctx context.Context, c *domain.Chambre) error {
	query := `UPDATE chambres SET nom = $1, description = $2, capacite = $3, prix_par_nuit = $4, statut = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, c.Nom, c.Description, c.Capacite, c.PrixParNuit, c.Statut, c.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete removes the room; occupants assigned to it keep their stay and lose
// the assignment.
func (r *chambreRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chambres WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *chambreRepository) query(ctx context.Context, query string, args ...any) ([]domain.Chambre, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chambres []domain.Chambre
	for rows.Next() {
		var c domain.Chambre
		if err := rows.Scan(&c.ID, &c.EtablissementID, &c.Nom, &c.Description, &c.Capacite, &c.PrixParNuit, &c.Statut); err != nil {
			return nil, err
		}
		chambres = append(chambres, c)
	}
	return chambres, rows.Err()
}
