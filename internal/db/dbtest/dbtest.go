package dbtest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/anchor-protocol/anchor-txs/internal/db/migrations"
)

// OpenWithoutMigrations opens a private in-memory sqlite database that is closed with the test.
func OpenWithoutMigrations(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqlxDB, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	// every connection to a memory database sees a fresh one
	sqlxDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlxDB.Close() })

	return sqlxDB
}

// Open is OpenWithoutMigrations with every migration applied.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	sqlxDB := OpenWithoutMigrations(t)
	m := migrate.HttpFileSystemMigrationSource{FileSystem: http.FS(migrations.FS)}
	if _, err := migrate.Exec(sqlxDB.DB, "sqlite3", m, migrate.Up); err != nil {
		t.Fatal(err)
	}
	return sqlxDB
}
