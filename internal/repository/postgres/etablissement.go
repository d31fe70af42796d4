package postgres

import (
	"context"
	"database/sql"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
)

const etablissementColumns = `id, nom_etablissement, COALESCE(numero_identification, ''), COALESCE(pays, ''), COALESCE(ville, ''),
	COALESCE(adresse, ''), COALESCE(telephone, ''), COALESCE(email, ''), devise, taux_taxe_sejour,
	format_numero_reservation, prochain_numero_sequence, actif, to_char(created_at, 'YYYY-MM-DD HH24:MI:SS')`

type etablissementRepository struct {
	db *sql.DB
}

func NewEtablissementRepository(db *sql.DB) repository.EtablissementRepository {
	return &etablissementRepository{db: db}
}

func scanEtablissement(row interface{ Scan(...any) error }, e *domain.Etablissement) error {
	return row.Scan(&e.ID, &e.NomEtablissement, &e.NumeroIdentification, &e.Pays, &e.Ville,
		&e.Adresse, &e.Telephone, &e.Email, &e.Devise, &e.TauxTaxeSejour,
		&e.FormatNumeroReservation, &e.ProchainNumeroSequence, &e.Actif, &e.CreatedAt)
}

func (r *etablissementRepository) Create(ctx context.Context, e *domain.Etablissement) error {
	if e.Devise == "" {
		e.Devise = domain.DefaultDevise
	}
	if e.FormatNumeroReservation == "" {
		e.FormatNumeroReservation = domain.DefaultFormatNumeroReservation
	}
	if e.ProchainNumeroSequence <= 0 {
		e.ProchainNumeroSequence = 1
	}
	query := `INSERT INTO etablissements (nom_etablissement, numero_identification, pays, ville, adresse, telephone, email, devise, taux_taxe_sejour, format_numero_reservation, prochain_numero_sequence, actif)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	return r.db.QueryRowContext(ctx, query, e.NomEtablissement, e.NumeroIdentification, e.Pays, e.Ville, e.Adresse,
		e.Telephone, e.Email, e.Devise, e.TauxTaxeSejour, e.FormatNumeroReservation, e.ProchainNumeroSequence, e.Actif).Scan(&e.ID)
}

func (r *etablissementRepository) GetByID(ctx context.Context, id int32) (*domain.Etablissement, error) {
	e := &domain.Etablissement{}
	query := `SELECT ` + etablissementColumns + ` FROM etablissements WHERE id = $1`
	if err := scanEtablissement(r.db.QueryRowContext(ctx, query, id), e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *etablissementRepository) List(ctx context.Context, actifOnly bool) ([]domain.Etablissement, error) {
	query := `SELECT ` + etablissementColumns + ` FROM etablissements`
	if actifOnly {
		query += ` WHERE actif = TRUE`
	}
	query += ` ORDER BY nom_etablissement`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Etablissement
	for rows.Next() {
		var e domain.Etablissement
		if err := scanEtablissement(rows, &e); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *etablissementRepository) Update(ctx context.Context, e *domain.Etablissement) error {
	query := `UPDATE etablissements SET nom_etablissement=$1, numero_identification=$2, pays=$3, ville=$4, adresse=$5, telephone=$6,
	          email=$7, devise=$8, taux_taxe_sejour=$9, format_numero_reservation=$10, actif=$11 WHERE id=$12`
	res, err := r.db.ExecContext(ctx, query, e.NomEtablissement, e.NumeroIdentification, e.Pays, e.Ville, e.Adresse, e.Telephone,
		e.Email, e.Devise, e.TauxTaxeSejour, e.FormatNumeroReservation, e.Actif, e.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *etablissementRepository) NextSequence(ctx context.Context, id int32) (int32, error) {
	var seq int32
	query := `UPDATE etablissements SET prochain_numero_sequence = prochain_numero_sequence + 1
	          WHERE id = $1 RETURNING prochain_numero_sequence - 1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&seq)
	return seq, err
}

// expectOneRow turns an update that touched nothing into sql.ErrNoRows.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
