package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"sejour-pms/internal/api/grpc/interceptor"
	httpapi "sejour-pms/internal/api/http"
	"sejour-pms/internal/config"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository/postgres"
	"sejour-pms/internal/service"
	"sejour-pms/internal/storage"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Sejour PMS server...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Initialize Database
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

	// Initialize the extras catalog cache
	catalogCache := service.NewNoopCatalogCache()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis unreachable, catalog cache misses until it comes back", "addr", cfg.Redis.Addr, "error", err)
		} else {
			logger.Info("Redis connection established", "addr", cfg.Redis.Addr)
		}
		catalogCache = service.NewRedisCatalogCache(rdb, cfg.CacheTTL())
	}

	// Initialize the invoice archive
	logger.Info("Using local invoice archive", "base_dir", cfg.Storage.BaseDir)
	archive, err := storage.NewLocalStorage(cfg.Storage.BaseURL, cfg.Storage.BaseDir)
	if err != nil {
		logger.Error("Failed to initialize invoice archive", "error", err)
		log.Fatalf("Failed to initialize invoice archive: %v", err)
	}

	// Initialize mail
	emailSvc := service.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	var sender service.NewsletterSender
	if cfg.SendGrid.APIKey != "" {
		sender = service.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	} else {
		logger.Warn("SendGrid API key not set, newsletters are disabled")
	}

	// Initialize Services
	services := httpapi.Services{
		Etablissements: service.NewEtablissementService(store.EtablissementRepository, store.ChambreRepository),
		Sejours: service.NewSejourService(
			store.SejourRepository,
			store.EtablissementRepository,
			store.PersonneRepository,
			store.ChambreRepository,
			store.ConsommationRepository,
		),
		Extras:        service.NewExtraService(store.ExtraRepository, catalogCache),
		Consommations: service.NewConsommationService(store.ConsommationRepository, store.SejourRepository, store.ExtraRepository),
		Invoices: service.NewInvoiceService(
			store.SejourRepository,
			store.EtablissementRepository,
			store.PersonneRepository,
			store.ConsommationRepository,
			archive,
			emailSvc,
		),
		Calendars: service.NewCalendarService(
			store.CalendarRepository,
			store.EtablissementRepository,
			service.NewHTTPFetcher(cfg.CalendarFetchTimeout(), cfg.Calendar.MaxBodyBytes),
		),
		Newsletters: service.NewNewsletterService(store.NewsletterRepository, sender, cfg.SendGrid.FromName),
		Exports:     service.NewExportService(store.PersonneRepository),
		Activity:    service.NewActivityService(store.ActivityLogRepository),
		Clients:     service.NewClientService(store.PersonneRepository),
		Statistics:  service.NewStatisticsService(store.StatisticsRepository),
	}

	// Set up the REST server
	apiServer := httpapi.NewServer(services, archive)
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           apiServer.Handler(cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up the gRPC health server
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	logging := interceptor.NewLoggingInterceptor()
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(logging.Unary()),
		grpc.StreamInterceptor(logging.Stream()),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	// Register reflection service for grpcurl
	reflection.Register(grpcServer)

	go func() {
		logger.Info("gRPC health server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", "error", err)
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down...")
	healthServer.Shutdown()
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Server stopped. Goodbye!")
}
