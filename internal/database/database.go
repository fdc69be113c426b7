// Package database implements the encrypted single-file store: opening the
// SQLite database, applying linear schema migrations on open, and providing
// the transaction boundary the secret repository builds on.
package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/allisson/secretsmanager/internal/cryptoutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps the encrypted SQLite handle together with the AEAD used to
// encrypt the secret payload columns and the write lock that serializes
// mutating transactions (§5: single-writer, multi-reader).
type DB struct {
	sqlDB *sql.DB
	aead  *cryptoutil.AEAD
	lock  *writeLock
}

// Open opens (creating if necessary) the SQLite database at path, applies
// pending migrations under an exclusive lock, derives the encryption key
// from passphrase (persisting a random salt in schema_meta on first open),
// and returns a ready-to-use DB.
func Open(path, passphrase string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA case_sensitive_like = OFF"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to configure like collation: %w", err)
	}

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	salt, err := loadOrCreateSalt(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to establish encryption salt: %w", err)
	}

	key, err := cryptoutil.DeriveKey(passphrase, salt)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	aead, err := cryptoutil.NewAEAD(key)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}

	return &DB{sqlDB: sqlDB, aead: aead, lock: newWriteLock()}, nil
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	return d.sqlDB.Close()
}

// SQL exposes the underlying *sql.DB for repository queries.
func (d *DB) SQL() *sql.DB {
	return d.sqlDB
}

// AEAD exposes the column-encryption helper for the repository.
func (d *DB) AEAD() *cryptoutil.AEAD {
	return d.aead
}

// Lock exposes the write lock for the transaction manager.
func (d *DB) Lock() *writeLock {
	return d.lock
}

func runMigrations(sqlDB *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	dbDriver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to wrap database for migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to build migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
