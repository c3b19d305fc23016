package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/banshee-data/femto/internal/db"
	"github.com/banshee-data/femto/internal/monitoring"
)

// setupTestDB opens a migrated database in a temp dir.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	original := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.Logf = original })

	d, err := db.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d.DB
}
