//go:build integration

package testdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/maacloud/account-api/internal/platform/postgres"
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestPoolWithT opens a pool on the test database, applying migrations
// on first use, and closes it when t finishes. It skips t when no test
// database is configured.
func GetTestPoolWithT(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip(DatabaseURLEnv + " not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, GetTestDatabaseURL())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return pool
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrateOnce.Do(func() {
		db := stdlib.OpenDBFromPool(pool)
		defer func() { _ = db.Close() }()

		if err := postgres.Migrate(ctx, db, "up", slog.Default()); err != nil {
			migrateErr = fmt.Errorf("migrate up: %w", err)
		}
	})
	return migrateErr
}
