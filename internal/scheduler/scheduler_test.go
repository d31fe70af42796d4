package scheduler

import (
	"testing"

	"sejour-pms/internal/config"
	"sejour-pms/internal/jobs"

	"github.com/stretchr/testify/assert"
)

func TestNewScheduler_RegistersJobs(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.SyncCalendars = "0 */30 * * * *"
	cfg.Scheduler.ReportStaleSejours = "0 0 6 * * *"
	cfg.Scheduler.PurgeActivityLogs = "0 30 3 * * *"

	s := NewScheduler(jobs.NewJobRunner(nil, &jobs.Services{}, cfg))
	assert.Len(t, s.cron.Entries(), 3)
	assert.True(t, s.IsRunning())
}

func TestNewScheduler_SkipsInvalidSchedule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.SyncCalendars = "not a schedule"
	cfg.Scheduler.ReportStaleSejours = "0 0 6 * * *"
	cfg.Scheduler.PurgeActivityLogs = "0 30 3 * * *"

	s := NewScheduler(jobs.NewJobRunner(nil, &jobs.Services{}, cfg))
	assert.Len(t, s.cron.Entries(), 2)
}
