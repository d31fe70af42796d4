package jobs

import (
	"context"

	"sejour-pms/internal/logger"
)

// SyncCalendars imports the feeds of every active iCal calendar
func (jr *JobRunner) SyncCalendars() {
	jr.runWithRecovery("SyncCalendars", func() {
		timeout := jr.config.CalendarFetchTimeout() * 10
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		ok, err := jr.services.Calendars.SyncAll(ctx)
		if err != nil {
			logger.Error("Failed to synchronize calendars", "error", err, "synchronized", ok)
			return
		}
		logger.Info("Calendars synchronized", "count", ok)
	})
}
