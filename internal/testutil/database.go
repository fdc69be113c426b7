// Package testutil provides testing utilities for database integration tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/secretsmanager/internal/database"
)

// OpenTestDB opens a fresh encrypted SQLite database under a temporary
// directory, applying migrations, and registers cleanup to close it when
// the test ends.
func OpenTestDB(t *testing.T) *database.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "secrets.db")
	db, err := database.Open(path, "test-encryption-passphrase")
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		require.NoError(t, db.Close(), "failed to close test database")
	})

	return db
}
