package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/panellens/backend/config"
	"github.com/panellens/backend/internal/domain"
	"github.com/panellens/backend/internal/infrastructure/cache"
	"github.com/panellens/backend/internal/infrastructure/logger"
	"github.com/panellens/backend/internal/infrastructure/persistence"
	"github.com/panellens/backend/internal/usecase"
)

func main() {
	var (
		email    string
		password string
	)

	flag.StringVar(&email, "email", "", "Account email")
	flag.StringVar(&password, "password", "", "Account password (at least 8 characters)")
	flag.Parse()

	if email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Usage: adduser -email analyst@example.com -password <secret>")
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: "info", Format: "console", Output: "stdout"})
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

	// sessions are never opened here, so a throwaway memory cache is enough
	auth := usecase.NewAuthService(persistence.NewGormUserRepository(db), cache.NewMemoryCache(), log, usecase.AuthServiceConfig{})

	user, err := auth.Register(context.Background(), email, password)
	switch {
	case errors.Is(err, domain.ErrUserExists):
		log.Fatal("Account already exists", zap.String("email", email))
	case err != nil:
		log.Fatal("Failed to create account", zap.Error(err))
	}

	log.Info("Account created", zap.Uint("id", user.ID), zap.String("email", user.Email))
}
