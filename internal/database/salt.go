package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
)

const saltMetaKey = "encryption_salt"
const saltLength = 16

// loadOrCreateSalt reads the installation's encryption salt from
// schema_meta, generating and persisting a fresh random one on first open.
// The salt is not secret; it only needs to be stable for a given database
// file so the same passphrase always derives the same key.
func loadOrCreateSalt(db *sql.DB) ([]byte, error) {
	var hexSalt string
	err := db.QueryRow("SELECT value FROM schema_meta WHERE key = ?", saltMetaKey).Scan(&hexSalt)
	if err == nil {
		return hex.DecodeString(hexSalt)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read encryption salt: %w", err)
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate encryption salt: %w", err)
	}

	_, err = db.Exec(
		"INSERT INTO schema_meta (key, value) VALUES (?, ?)",
		saltMetaKey, hex.EncodeToString(salt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to persist encryption salt: %w", err)
	}
	return salt, nil
}
