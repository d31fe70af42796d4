package postgres

import (
	"context"
	"database/sql"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"

	"github.com/lib/pq"
)

type newsletterRepository struct {
	db *sql.DB
}

func NewNewsletterRepository(db *sql.DB) repository.NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Create(ctx context.Context, n *domain.Newsletter) error {
	if n.Status == "" {
		n.Status = domain.NewsletterStatusPending
	}
	query := `INSERT INTO newsletters (etablissement_id, subject, content, content_type, recipient_emails, status)
	          VALUES (NULLIF($1, 0), $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, n.EtablissementID, n.Subject, n.Content, n.ContentType, pq.Array(n.RecipientEmails), n.Status).
		Scan(&n.ID, &n.CreatedAt)
}

func (r *newsletterRepository) UpdateStatus(ctx context.Context, id int32, status domain.NewsletterStatus, errorMessage string) error {
	query := `UPDATE newsletters SET status = $1, error_message = NULLIF($2, ''),
	          sent_at = CASE WHEN $1 = 'sent' THEN CURRENT_TIMESTAMP ELSE sent_at END
	          WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, errorMessage, id)
	return err
}

func (r *newsletterRepository) List(ctx context.Context, etablissementID int32) ([]domain.Newsletter, error) {
	query := `SELECT id, COALESCE(etablissement_id, 0), subject, content, content_type, recipient_emails, status,
	          COALESCE(error_message, ''), sent_at, created_at
	          FROM newsletters WHERE ($1 = 0 OR etablissement_id = $1) ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, etablissementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Newsletter
	for rows.Next() {
		var n domain.Newsletter
		if err := rows.Scan(&n.ID, &n.EtablissementID, &n.Subject, &n.Content, &n.ContentType, pq.Array(&n.RecipientEmails),
			&n.Status, &n.ErrorMessage, &n.SentAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
