package main

import (
	"flag"
	"log"
	"os"

	"StockPulse/internal/di"
	"StockPulse/pkg/config"
	"StockPulse/pkg/logger"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	zl, err := logger.New(&logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	zl.Info("starting advice run",
		logger.String("env", cfg.Environment),
		logger.String("bars_dir", cfg.Data.BarsDir),
		logger.String("tolerance", cfg.Profile.RiskTolerance),
		logger.String("horizon", cfg.Profile.Horizon))

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg, zl)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run one advice batch (blocks until done or signal)
	if err := app.Run(); err != nil {
		zl.Error("run failed", logger.Error(err))
		os.Exit(1)
	}
}
