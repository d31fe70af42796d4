package postgres

import (
	"context"
	"database/sql"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
)

type personneRepository struct {
	db *sql.DB
}

func NewPersonneRepository(db *sql.DB) repository.PersonneRepository {
	return &personneRepository{db: db}
}

func (r *personneRepository) Create(ctx context.Context, p *domain.Personne) error {
	query := `INSERT INTO personnes (sejour_id, nom, prenom, email, telephone, pays, chambre_id, est_contact_principal)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, p.SejourID, p.Nom, p.Prenom, p.Email, p.Telephone, p.Pays, p.ChambreID, p.EstContactPrincipal).Scan(&p.ID)
}

func (r *personneRepository) ListBySejour(ctx context.Context, sejourID int32) ([]domain.Personne, error) {
	query := `SELECT id, sejour_id, nom, COALESCE(prenom, ''), COALESCE(email, ''), COALESCE(telephone, ''), COALESCE(pays, ''), chambre_id, est_contact_principal
	          FROM personnes WHERE sejour_id = $1 ORDER BY est_contact_principal DESC, id`
	rows, err := r.db.QueryContext(ctx, query, sejourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personnes []domain.Personne
	for rows.Next() {
		var p domain.Personne
		if err := rows.Scan(&p.ID, &p.SejourID, &p.Nom, &p.Prenom, &p.Email, &p.Telephone, &p.Pays, &p.ChambreID, &p.EstContactPrincipal); err != nil {
			return nil, err
		}
		personnes = append(personnes, p)
	}
	return personnes, rows.Err()
}

// ReplaceForSejour swaps the occupants of a stay in one transaction.
func (r *personneRepository) ReplaceForSejour(ctx context.Context, sejourID int32, personnes []domain.Personne) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM personnes WHERE sejour_id = $1`, sejourID); err != nil {
		return err
	}

	query := `INSERT INTO personnes (sejour_id, nom, prenom, email, telephone, pays, chambre_id, est_contact_principal)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	for i := range personnes {
		p := &personnes[i]
		p.SejourID = sejourID
		if err := tx.QueryRowContext(ctx, query, sejourID, p.Nom, p.Prenom, p.Email, p.Telephone, p.Pays, p.ChambreID, p.EstContactPrincipal).Scan(&p.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

const clientSelect = `SELECT p.id, p.sejour_id, p.nom, COALESCE(p.prenom, ''), COALESCE(p.email, ''), COALESCE(p.telephone, ''), COALESCE(p.pays, ''),
	p.chambre_id, p.est_contact_principal, s.numero_reservation, COALESCE(e.nom_etablissement, ''),
	to_char(s.date_arrivee, 'YYYY-MM-DD'), to_char(s.date_depart, 'YYYY-MM-DD')
	FROM personnes p
	JOIN sejours s ON s.id = p.sejour_id
	LEFT JOIN etablissements e ON e.id = s.etablissement_id`

func scanClient(row interface{ Scan(...any) error }, c *domain.Client) error {
	return row.Scan(&c.ID, &c.SejourID, &c.Nom, &c.Prenom, &c.Email, &c.Telephone, &c.Pays, &c.ChambreID, &c.EstContactPrincipal,
		&c.NumeroReservation, &c.NomEtablissement, &c.DateArrivee, &c.DateDepart)
}

func (r *personneRepository) SearchClients(ctx context.Context, term string) ([]domain.Client, error) {
	query := clientSelect + `
	          WHERE ($1 = '' OR p.nom ILIKE '%' || $1 || '%' OR p.prenom ILIKE '%' || $1 || '%'
	                 OR p.email ILIKE '%' || $1 || '%' OR s.numero_reservation ILIKE '%' || $1 || '%')
	          ORDER BY s.date_arrivee DESC, p.nom`
	rows, err := r.db.QueryContext(ctx, query, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := scanClient(rows, &c); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *personneRepository) GetClient(ctx context.Context, id int32) (*domain.Client, error) {
	c := &domain.Client{}
	if err := scanClient(r.db.QueryRowContext(ctx, clientSelect+` WHERE p.id = $1`, id), c); err != nil {
		return nil, err
	}
	return c, nil
}
