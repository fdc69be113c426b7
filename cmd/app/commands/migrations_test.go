package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		t.Setenv("SM_DATABASE_PATH", filepath.Join(t.TempDir(), "secrets.db"))
		t.Setenv("SM_ENCRYPTION_KEY", "test-encryption-key")
		t.Setenv("SM_ACCESS_KEY_ID", "AKIATEST")
		t.Setenv("SM_ACCESS_KEY_SECRET", "test-secret")

		err := RunMigrations()
		require.NoError(t, err)
	})

	t.Run("invalid-database-path", func(t *testing.T) {
		t.Setenv("SM_DATABASE_PATH", filepath.Join(t.TempDir(), "missing-dir", "nested", "secrets.db"))
		t.Setenv("SM_ENCRYPTION_KEY", "test-encryption-key")
		t.Setenv("SM_ACCESS_KEY_ID", "AKIATEST")
		t.Setenv("SM_ACCESS_KEY_SECRET", "test-secret")

		err := RunMigrations()
		require.Error(t, err)
	})
}
