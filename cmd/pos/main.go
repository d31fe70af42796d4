package main

import (
	"flag"
	"log"
	"os"

	"sejour-pms/internal/config"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/pos"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	user := flag.String("user", os.Getenv("USER"), "Operator name recorded when closing stays")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting point of sale", "server", cfg.POS.ServerURL, "user", *user)

	client := pos.NewClient(cfg.POS.ServerURL, cfg.POSTimeout(), *user)
	r := newREPL(os.Stdin, os.Stdout, client, cfg.POS.InvoiceDir)
	if err := r.run(); err != nil {
		log.Fatalf("Point of sale stopped: %v", err)
	}
}
