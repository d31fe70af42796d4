package jobs

import (
	"context"
	"time"

	"sejour-pms/internal/logger"
)

// ReportStaleSejours logs active stays whose departure date has passed so
// staff can settle and close them. Stays are never closed automatically.
func (jr *JobRunner) ReportStaleSejours() {
	jr.runWithRecovery("ReportStaleSejours", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		stale, err := jr.services.Sejours.ListStaleSejours(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to list stale sejours", "error", err)
			return
		}

		logger.Info("Active sejours past departure", "count", len(stale))
		for _, s := range stale {
			logger.Warn("Sejour still active after departure",
				"sejour_id", s.ID,
				"numero", s.NumeroReservation,
				"etablissement_id", s.EtablissementID,
				"date_depart", s.DateDepart)
		}
	})
}
