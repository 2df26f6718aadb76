package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/panellens/backend/config"
	httpDelivery "github.com/panellens/backend/internal/delivery/http"
	"github.com/panellens/backend/internal/infrastructure/cache"
	"github.com/panellens/backend/internal/infrastructure/logger"
	"github.com/panellens/backend/internal/infrastructure/persistence"
	"github.com/panellens/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewForEnvironment(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting PanelLens backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	// Initialize infrastructure dependencies
	db, err := persistence.Open(persistence.Config{
		Path:     cfg.Database.Path,
		LogLevel: cfg.Database.LogLevel,
	}, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := persistence.Close(db); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	store, err := cache.New(cfg.Cache.Type, cfg.Cache.RedisURL)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	// Initialize usecase layer
	shipmentService := usecase.NewShipmentService(
		persistence.NewGormShipmentRepository(db),
		store,
		log,
		usecase.ShipmentServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Inference.EnableDebugLogging,
		},
	)
	authService := usecase.NewAuthService(
		persistence.NewGormUserRepository(db),
		store,
		log,
		usecase.AuthServiceConfig{SessionTTL: cfg.Auth.SessionTTL},
	)

	handler := httpDelivery.NewHandler(shipmentService, authService, httpDelivery.CookieConfig{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.SecureCookie,
	})
	router := httpDelivery.SetupRouter(cfg, handler, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
}
