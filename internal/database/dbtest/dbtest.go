// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"mealplanner/internal/database"

	"github.com/google/uuid"
)

// New returns a migrated sqlite database living in t.TempDir().
func New(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB("sqlite://" + path)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// CreateUser inserts a user row directly and returns its id.
func CreateUser(t *testing.T, db *database.DB, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.SQL.Exec(
		db.SQL.Rebind(`INSERT INTO users (id, external_id, name, email, created_at) VALUES (?, ?, ?, ?, ?)`),
		id, "ext-"+id.String(), name, name+"@example.com", time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	return id
}
