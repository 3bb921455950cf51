package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/asiatranscargo/cargo-api/config"
	"github.com/asiatranscargo/cargo-api/pkg/db"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"go.uber.org/zap"
)

// Usage: migrate [up|down]. Defaults to up; down rolls back one step.
func main() {
	direction := db.Up
	if len(os.Args) > 1 {
		direction = db.Direction(os.Args[1])
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required for migrations")
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		ServiceName: "cargo-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)),
		zap.String("direction", string(direction)))

	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.CACertPath, "file://migrations", direction); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides credentials, keeping host and database name
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Scheme + "://" + u.Host + u.Path
}
