package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"
)

type consommationRepository struct {
	db *sql.DB
}

func NewConsommationRepository(db *sql.DB) repository.ConsommationRepository {
	return &consommationRepository{db: db}
}

const consommationColumns = `id, sejour_id, extra_id, nom, prix_unitaire, unite_mesure, quantite, montant_total, date_ajout`

// Create snapshots name, price and unit from the catalog row.
const insertConsommation = `INSERT INTO sejour_extras (sejour_id, extra_id, nom, prix_unitaire, unite_mesure, quantite, montant_total)
	SELECT $1::integer, x.id, x.nom, x.prix_unitaire, x.unite_mesure, $3::integer, x.prix_unitaire * $3::integer
	FROM extras x WHERE x.id = $2
	RETURNING ` + consommationColumns

const updateConsommation = `UPDATE sejour_extras SET quantite = $1::integer, montant_total = prix_unitaire * $1::integer WHERE id = $2`

func scanConsommation(row interface{ Scan(...any) error }, c *domain.Consommation) error {
	return row.Scan(&c.ID, &c.SejourID, &c.ExtraID, &c.Nom, &c.PrixUnitaire, &c.UniteMesure, &c.Quantite, &c.MontantTotal, &c.DateAjout)
}

func (r *consommationRepository) Create(ctx context.Context, c *domain.Consommation) error {
	logger.DatabaseCall("INSERT", "sejour_extras", "sejour_id", c.SejourID, "extra_id", c.ExtraID)
	err := scanConsommation(r.db.QueryRowContext(ctx, insertConsommation, c.SejourID, c.ExtraID, c.Quantite), c)
	logger.DatabaseResult("INSERT", 1, err, "table", "sejour_extras")
	return err
}

func (r *consommationRepository) GetByID(ctx context.Context, id int32) (*domain.Consommation, error) {
	c := &domain.Consommation{}
	query := `SELECT ` + consommationColumns + ` FROM sejour_extras WHERE id = $1`
	if err := scanConsommation(r.db.QueryRowContext(ctx, query, id), c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *consommationRepository) ListBySejour(ctx context.Context, sejourID int32) ([]domain.Consommation, error) {
	query := `SELECT ` + consommationColumns + ` FROM sejour_extras WHERE sejour_id = $1 ORDER BY date_ajout, id`
	rows, err := r.db.QueryContext(ctx, query, sejourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []domain.Consommation{}
	for rows.Next() {
		var c domain.Consommation
		if err := scanConsommation(rows, &c); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *consommationRepository) UpdateQuantite(ctx context.Context, id, quantite int32) error {
	res, err := r.db.ExecContext(ctx, updateConsommation, quantite, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *consommationRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sejour_extras WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *consommationRepository) ApplyBatch(ctx context.Context, sejourID int32, ops []domain.ConsommationOp) error {
	logger.DatabaseCall("BATCH", "sejour_extras", "sejour_id", sejourID, "operations", len(ops))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// A close committed since the caller's check must win over the batch.
	var sejour domain.Sejour
	var closedAt sql.NullTime
	err = tx.QueryRowContext(ctx, `SELECT statut, closed_at FROM sejours WHERE id = $1 FOR UPDATE`, sejourID).
		Scan(&sejour.Statut, &closedAt)
	if err != nil {
		return err
	}
	if closedAt.Valid {
		sejour.ClosedAt = &closedAt.Time
	}
	if sejour.IsClosed() {
		return fmt.Errorf("sejour %d: %w", sejourID, repository.ErrSejourClosed)
	}

	for i, op := range ops {
		switch op.Op {
		case domain.ConsommationOpCreate:
			var c domain.Consommation
			if err := scanConsommation(tx.QueryRowContext(ctx, insertConsommation, sejourID, op.ExtraID, op.Quantite), &c); err != nil {
				return fmt.Errorf("operation %d (create extra %d): %w", i, op.ExtraID, err)
			}
		case domain.ConsommationOpUpdate:
			res, err := tx.ExecContext(ctx, updateConsommation+` AND sejour_id = $3`, op.Quantite, op.SejourExtraID, sejourID)
			if err != nil {
				return fmt.Errorf("operation %d (update %d): %w", i, op.SejourExtraID, err)
			}
			if err := expectOneRow(res); err != nil {
				return fmt.Errorf("operation %d (update %d): %w", i, op.SejourExtraID, err)
			}
		default:
			return fmt.Errorf("operation %d: unknown op %q", i, op.Op)
		}
	}

	err = tx.Commit()
	logger.DatabaseResult("BATCH", int64(len(ops)), err, "table", "sejour_extras")
	return err
}
