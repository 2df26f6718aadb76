package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/panellens/backend/config"
	"github.com/panellens/backend/internal/infrastructure/csvimport"
	"github.com/panellens/backend/internal/infrastructure/logger"
	"github.com/panellens/backend/internal/infrastructure/persistence"
	"github.com/panellens/backend/internal/usecase"
)

func main() {
	var (
		file     string
		logLevel string
	)

	flag.StringVar(&file, "file", "", "Path to the shipments CSV file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if file == "" {
		fmt.Fprintln(os.Stderr, "Usage: import -file shipments.csv [-log-level info]")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.Open(persistence.Config{
		Path:     cfg.Database.Path,
		LogLevel: cfg.Database.LogLevel,
	}, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = persistence.Close(db) }()

	f, err := os.Open(file)
	if err != nil {
		log.Fatal("Failed to open CSV file", zap.String("file", file), zap.Error(err))
	}
	defer f.Close()

	shipments, err := csvimport.NewLoader().LoadShipments(f)
	if err != nil {
		log.Fatal("Failed to parse CSV file", zap.String("file", file), zap.Error(err))
	}

	// cache stays nil: import never reads query results
	service := usecase.NewShipmentService(persistence.NewGormShipmentRepository(db), nil, log, usecase.ShipmentServiceConfig{})
	n, err := service.Import(context.Background(), shipments)
	if err != nil {
		log.Fatal("Import failed", zap.String("file", file), zap.Error(err))
	}

	log.Info("Import complete",
		zap.String("file", file),
		zap.Int("rows", n),
		zap.String("database", cfg.Database.Path),
	)
}
