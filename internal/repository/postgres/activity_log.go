package postgres

import (
	"context"
	"database/sql"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/repository"
)

type activityLogRepository struct {
	db *sql.DB
}

func NewActivityLogRepository(db *sql.DB) repository.ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, l *domain.ActivityLog) error {
	query := `INSERT INTO activity_logs (action, method, path, status_code, details, ip_address, request_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, l.Action, l.Method, l.Path, l.StatusCode, l.Details, l.IPAddress, l.RequestID).
		Scan(&l.ID, &l.CreatedAt)
}

func (r *activityLogRepository) List(ctx context.Context, limit int32) ([]domain.ActivityLog, error) {
	query := `SELECT id, action, method, path, status_code, COALESCE(details, ''), COALESCE(ip_address, ''), COALESCE(request_id, ''), created_at
	          FROM activity_logs ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.ActivityLog
	for rows.Next() {
		var l domain.ActivityLog
		if err := rows.Scan(&l.ID, &l.Action, &l.Method, &l.Path, &l.StatusCode, &l.Details, &l.IPAddress, &l.RequestID, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
