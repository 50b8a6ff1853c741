// Package testing provides testing utilities and helpers for the ledgerwise project.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/ledgerwise/internal/database"
)

// NewTestDB creates a migrated SQLite database in a per-test temp directory.
// The connection is closed when the test finishes.
//
// Supported schema names:
//   - "ledger" - applies ledger_schema.sql with the ledger profile
//   - "cache" - applies cache_schema.sql with the cache profile
//   - Unknown names - creates an empty standard database
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profileFor(name),
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	return db
}

func profileFor(name string) database.DatabaseProfile {
	switch name {
	case "ledger":
		return database.ProfileLedger
	case "cache":
		return database.ProfileCache
	default:
		return database.ProfileStandard
	}
}
