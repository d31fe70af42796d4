package jobs

import (
	"context"
	"time"

	"sejour-pms/internal/logger"
)

// PurgeActivityLogs deletes activity log entries older than the retention
func (jr *JobRunner) PurgeActivityLogs() {
	jr.runWithRecovery("PurgeActivityLogs", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		days := jr.config.Scheduler.ActivityLogRetentionDays
		cutoff := jr.now().AddDate(0, 0, -days)

		query := `DELETE FROM activity_logs WHERE created_at < $1`
		logger.DatabaseCall("DELETE", "activity_logs", "cutoff", cutoff)
		res, err := jr.db.ExecContext(ctx, query, cutoff)
		if err != nil {
			logger.DatabaseResult("DELETE", 0, err)
			logger.Error("Failed to purge activity logs", "error", err)
			return
		}

		n, _ := res.RowsAffected()
		logger.DatabaseResult("DELETE", n, nil)
		logger.Info("Purged activity logs", "count", n, "retention_days", days)
	})
}
