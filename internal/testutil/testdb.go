package testutil

import (
	"database/sql"
	"testing"

	"github.com/cstcaptive/cstlendar/internal/db"
)

// NewTestDB creates an in-memory store with the schema applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}
