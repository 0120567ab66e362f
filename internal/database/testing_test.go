package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testPostgresDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "picocms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "picocms")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable&connect_timeout=2"
}

// testSQLite opens a migrated SQLite database in a temp directory.
func testSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Connect(SQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db, SQLite); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}
