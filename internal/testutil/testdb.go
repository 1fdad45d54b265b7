package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const containerStartupTimeout = 30 * time.Second

// SetupTestDB starts a throwaway Postgres container, applies the project
// migrations, and returns an open pool. The container and pool are torn
// down with the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := startPostgres(t)
	if err != nil {
		t.Fatalf("setup test db: %v", err)
	}

	migrations, err := upMigrations()
	if err != nil {
		t.Fatalf("locate migrations: %v", err)
	}
	for _, path := range migrations {
		ddl, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read migration %s: %v", filepath.Base(path), err)
		}
		if _, err := db.Exec(string(ddl)); err != nil {
			t.Fatalf("apply migration %s: %v", filepath.Base(path), err)
		}
	}

	return db
}

func startPostgres(t *testing.T) (*sql.DB, error) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ledger_test"),
		postgres.WithUsername("ledger"),
		postgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(containerStartupTimeout),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start container: %w", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, fmt.Errorf("connection string: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	t.Cleanup(func() { db.Close() })

	return db, nil
}

// upMigrations finds the project's migrations directory by walking up
// from the package under test and returns the *.up.sql files in apply
// order.
func upMigrations() ([]string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}

	for range 10 {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			files, err := filepath.Glob(filepath.Join(candidate, "*.up.sql"))
			if err != nil {
				return nil, fmt.Errorf("glob migrations: %w", err)
			}
			sort.Strings(files)
			return files, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, fmt.Errorf("no migrations directory above %s", dir)
}
