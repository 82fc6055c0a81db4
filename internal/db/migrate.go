package db

import (
	"context"
	"fmt"
	"net/http"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/anchor-protocol/anchor-txs/internal/db/migrations"
	"github.com/anchor-protocol/anchor-txs/internal/utils"
)

// Migrate applies up to count migrations (all of them when count is 0) to the database at databaseURL.
func Migrate(ctx context.Context, databaseURL string, direction migrate.MigrationDirection, count int) (int, error) {
	dbConnectionPool, err := OpenDBConnectionPool(databaseURL)
	if err != nil {
		return 0, fmt.Errorf("connecting to the database: %w", err)
	}
	defer utils.DeferredClose(ctx, dbConnectionPool, "closing dbConnectionPool in the Migrate function")

	return MigrateConnectionPool(ctx, dbConnectionPool, direction, count)
}

// MigrateConnectionPool applies migrations on an open pool, using the pool's driver as the dialect.
func MigrateConnectionPool(ctx context.Context, dbConnectionPool ConnectionPool, direction migrate.MigrationDirection, count int) (int, error) {
	sqlDB, err := dbConnectionPool.SqlDB(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting sql.DB: %w", err)
	}

	m := migrate.HttpFileSystemMigrationSource{FileSystem: http.FS(migrations.FS)}
	appliedMigrationsCount, err := migrate.ExecMax(sqlDB, dbConnectionPool.DriverName(), m, direction, count)
	if err != nil {
		return appliedMigrationsCount, fmt.Errorf("applying migrations: %w", err)
	}
	return appliedMigrationsCount, nil
}
