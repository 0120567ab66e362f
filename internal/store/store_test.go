// store_test.go provides the shared test database helpers for all store
// tests. SQLite tests run in-process against a temp file; PostgreSQL tests
// are skipped if the server is not available.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"picocms/internal/database"
)

// testPostgresDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testPostgresDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "picocms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "picocms")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable&connect_timeout=2"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a fresh, migrated SQLite database. A cleanup function is
// registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(database.SQLite, filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db, database.SQLite); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// testPostgres opens the integration database and runs migrations.
// If the database is unavailable, the test is skipped.
func testPostgres(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(database.Postgres, testPostgresDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db, database.Postgres); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// cleanPosts removes test posts by slug. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, d database.Dialect, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec(d.Rebind("DELETE FROM posts WHERE slug = ?"), slug)
	}
}

// countRows returns the number of rows in table.
func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
