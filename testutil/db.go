// Package testutil provides shared helpers for integration tests.
// Helpers in this package skip automatically when TEST_DATABASE_URL is not
// set, so unit tests can run without a running database.
package testutil

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/tinytrails/backend/migrations"
)

// envDSN names the variable that opts a test run into the database tests.
const envDSN = "TEST_DATABASE_URL"

// NewPool opens a *pgxpool.Pool against TEST_DATABASE_URL, skipping the test
// when it is unset. The pool is closed when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewTx opens a transaction that is rolled back when the test finishes,
// giving each repo test an isolated view of the catalog. Repos accept a
// pgx.Tx anywhere they accept a pool.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()

	tx, err := NewPool(t).Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// NewSQLDB opens a *sql.DB against TEST_DATABASE_URL using the pgx
// database/sql driver, for driving goose directly. Closed on cleanup.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MigrateFromEnv applies all migrations to TEST_DATABASE_URL and reports
// whether a database is configured. Call it from TestMain, where no
// *testing.T is available; it exits the process on failure.
func MigrateFromEnv() bool {
	dsn := os.Getenv(envDSN)
	if dsn == "" {
		return false
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("testutil.MigrateFromEnv: open: %v", err)
	}
	defer db.Close()

	if _, err := migrations.Up(context.Background(), db); err != nil {
		log.Fatalf("testutil.MigrateFromEnv: %v", err)
	}
	return true
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(envDSN)
	if dsn == "" {
		t.Skip(envDSN + " not set; skipping integration test")
	}
	return dsn
}
