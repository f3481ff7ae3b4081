package database

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestRunMigrations(t *testing.T) {
	db, err := NewConnection(filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	if version == 0 {
		t.Error("Expected non-zero schema version after migrations")
	}
	if dirty {
		t.Error("Expected clean migration state")
	}

	// Running again must be a no-op
	again, _, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Second RunMigrations failed: %v", err)
	}
	if again != version {
		t.Errorf("Expected version %d after re-run, got %d", version, again)
	}
}
