package cryptoutil

import (
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	derivedKeyLen = 32
)

// DeriveKey derives a 32-byte AES-256 key from an operator-provided
// passphrase and a per-installation salt, using scrypt with cost parameters
// recommended by the golang.org/x/crypto/scrypt documentation.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, derivedKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
