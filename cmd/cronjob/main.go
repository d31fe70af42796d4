package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"sejour-pms/internal/config"
	"sejour-pms/internal/jobs"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository/postgres"
	"sejour-pms/internal/scheduler"
	"sejour-pms/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sync-calendars', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Sejour PMS cronjob runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	jobServices := &jobs.Services{
		Calendars: service.NewCalendarService(
			store.CalendarRepository,
			store.EtablissementRepository,
			service.NewHTTPFetcher(cfg.CalendarFetchTimeout(), cfg.Calendar.MaxBodyBytes),
		),
		Sejours: service.NewSejourService(
			store.SejourRepository,
			store.EtablissementRepository,
			store.PersonneRepository,
			store.ChambreRepository,
			store.ConsommationRepository,
		),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store.DB(), jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sync-calendars":
		jobRunner.SyncCalendars()
	case "report-stale-sejours":
		jobRunner.ReportStaleSejours()
	case "purge-activity-logs":
		jobRunner.PurgeActivityLogs()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sync-calendars\n")
		fmt.Printf("  - report-stale-sejours\n")
		fmt.Printf("  - purge-activity-logs\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
