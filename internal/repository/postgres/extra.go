package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
)

type extraRepository struct {
	db *sql.DB
}

func NewExtraRepository(db *sql.DB) repository.ExtraRepository {
	return &extraRepository{db: db}
}

const extraSelect = `SELECT x.id, x.etablissement_id, COALESCE(e.nom_etablissement, ''), x.nom, COALESCE(x.description, ''),
	x.prix_unitaire, x.unite_mesure, x.actif
	FROM extras x LEFT JOIN etablissements e ON e.id = x.etablissement_id`

func scanExtra(row interface{ Scan(...any) error }, x *domain.Extra) error {
	return row.Scan(&x.ID, &x.EtablissementID, &x.NomEtablissement, &x.Nom, &x.Description, &x.PrixUnitaire, &x.UniteMesure, &x.Actif)
}

func (r *extraRepository) Create(ctx context.Context, x *domain.Extra) error {
	if x.UniteMesure == "" {
		x.UniteMesure = domain.DefaultUniteMesure
	}
	query := `INSERT INTO extras (etablissement_id, nom, description, prix_unitaire, unite_mesure, actif)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, x.EtablissementID, x.Nom, x.Description, x.PrixUnitaire, x.UniteMesure, x.Actif).Scan(&x.ID)
}

func (r *extraRepository) GetByID(ctx context.Context, id int32) (*domain.Extra, error) {
	x := &domain.Extra{}
	if err := scanExtra(r.db.QueryRowContext(ctx, extraSelect+` WHERE x.id = $1`, id), x); err != nil {
		return nil, err
	}
	return x, nil
}

func (r *extraRepository) List(ctx context.Context, etablissementID int32, actifOnly bool) ([]domain.Extra, error) {
	query := extraSelect + ` WHERE ($1 = 0 OR x.etablissement_id = $1)`
	if actifOnly {
		query += ` AND x.actif = TRUE`
	}
	query += ` ORDER BY x.nom`

	rows, err := r.db.QueryContext(ctx, query, etablissementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extras []domain.Extra
	for rows.Next() {
		var x domain.Extra
		if err := scanExtra(rows, &x); err != nil {
			return nil, err
		}
		extras = append(extras, x)
	}
	return extras, rows.Err()
}

func (r *extraRepository) Update(ctx context.Context, x *domain.Extra) error {
	query := `UPDATE extras SET etablissement_id=$1, nom=$2, description=$3, prix_unitaire=$4, unite_mesure=$5, actif=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, x.EtablissementID, x.Nom, x.Description, x.PrixUnitaire, x.UniteMesure, x.Actif, x.ID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Delete deactivates the extra. Consumption rows keep referencing it.
func (r *extraRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE extras SET actif = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *extraRepository) Summary(ctx context.Context, etablissementID int32, dateDebut, dateFin string) ([]domain.ExtraSummary, error) {
	query := `SELECT se.nom, se.unite_mesure, se.prix_unitaire, COUNT(*), COALESCE(SUM(se.quantite), 0), COALESCE(SUM(se.montant_total), 0)
	          FROM sejour_extras se JOIN sejours s ON s.id = se.sejour_id
	          WHERE s.etablissement_id = $1`
	args := []any{etablissementID}
	if dateDebut != "" {
		args = append(args, dateDebut)
		query += fmt.Sprintf(" AND s.date_arrivee >= $%d", len(args))
	}
	if dateFin != "" {
		args = append(args, dateFin)
		query += fmt.Sprintf(" AND s.date_depart <= $%d", len(args))
	}
	query += ` GROUP BY se.nom, se.unite_mesure, se.prix_unitaire ORDER BY 6 DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summary []domain.ExtraSummary
	for rows.Next() {
		var s domain.ExtraSummary
		if err := rows.Scan(&s.ExtraNom, &s.UniteMesure, &s.PrixUnitaire, &s.NombreUtilisations, &s.QuantiteTotale, &s.MontantTotal); err != nil {
			return nil, err
		}
		summary = append(summary, s)
	}
	return summary, rows.Err()
}
