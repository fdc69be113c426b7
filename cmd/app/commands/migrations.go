package commands

import (
	"log/slog"

	"github.com/allisson/secretsmanager/internal/app"
	"github.com/allisson/secretsmanager/internal/config"
	"github.com/allisson/secretsmanager/internal/database"
)

// RunMigrations opens the encrypted SQLite database, which applies any
// pending embedded migrations as a side effect of Open, then closes it.
func RunMigrations() error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	logger.Info("running database migrations", slog.String("path", cfg.DatabasePath))

	db, err := database.Open(cfg.DatabasePath, cfg.EncryptionKey)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("migrations completed successfully")
	return nil
}
