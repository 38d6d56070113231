package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/maacloud/account-api/internal/config"
	"github.com/maacloud/account-api/internal/platform/postgres"
)

// handleMigrations runs a goose command against the configured database.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.URL == "" {
		return errors.New("migrations require database.url to be set")
	}

	pool, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close migration connection", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
