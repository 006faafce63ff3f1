// Package testutil provides shared helpers for integration tests.
// Helpers in this package skip automatically when no database is available,
// so unit tests can run without Postgres.
//
// A database is available when TEST_DATABASE_URL is set (migrations must be
// applied by the caller, see repo_test.TestMain), or when
// TEST_POSTGRES_CONTAINER=1, in which case a throwaway Postgres container is
// started once per test binary and migrated.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tuconnect/triplog/backend/migrations"
)

// NewPool opens a *pgxpool.Pool connected to the test database.
//
// The test is skipped automatically if no database is configured, so
// integration tests are opt-in and never break CI environments that lack one.
// The pool is closed automatically when the test (and all its subtests) finish.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := requireDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
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

// NewSQLDB opens a *sql.DB connected to the test database using the pgx
// database/sql driver.
//
// Use this when you need a *sql.DB rather than a *pgxpool.Pool, for example
// when driving goose migrations in integration tests.
// The connection is closed automatically when the test finishes.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := requireDSN(t)

	db, err := sql.Open("pgx", dsn)
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

// MustOpenSQLDB opens a *sql.DB for the given DSN and panics on any error.
// Use this in TestMain functions where no *testing.T is available.
// Callers are responsible for closing the returned *sql.DB.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// requireDSN returns the DSN of the test database, skipping the test if none
// is configured.
func requireDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	if os.Getenv("TEST_POSTGRES_CONTAINER") == "" {
		t.Skip("TEST_DATABASE_URL not set and TEST_POSTGRES_CONTAINER not enabled; skipping integration test")
	}
	dsn, err := containerDSN()
	if err != nil {
		t.Fatalf("testutil: postgres container: %v", err)
	}
	return dsn
}

var (
	containerOnce sync.Once
	containerURL  string
	containerErr  error
)

// containerDSN starts a Postgres container the first time it is called and
// applies all migrations to it. The container outlives the test binary's
// tests and is removed by the testcontainers reaper when the process exits.
func containerDSN() (string, error) {
	containerOnce.Do(func() {
		ctx := context.Background()

		c, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("triplog_test"),
			tcpostgres.WithUsername("triplog"),
			tcpostgres.WithPassword("triplog"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			containerErr = fmt.Errorf("start: %w", err)
			return
		}

		dsn, err := c.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			containerErr = fmt.Errorf("connection string: %w", err)
			return
		}

		db := MustOpenSQLDB(dsn)
		defer db.Close()
		if _, err := migrations.Up(ctx, db); err != nil {
			containerErr = err
			return
		}

		containerURL = dsn
	})
	return containerURL, containerErr
}
