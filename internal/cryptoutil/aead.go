package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// AEAD wraps an AES-256-GCM cipher keyed from the store's derived key. It
// encrypts individual column values before they reach SQLite, in the pattern
// of a two-tier envelope scheme without the envelope: the derived key is used
// directly since the store already treats it as secret material held only in
// server memory.
type AEAD struct {
	gcm cipher.AEAD
}

// NewAEAD constructs an AEAD helper from a 32-byte key.
func NewAEAD(key []byte) (*AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm: %w", err)
	}
	return &AEAD{gcm: gcm}, nil
}

// Seal encrypts plaintext, returning nonce||ciphertext||tag.
func (a *AEAD) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, a.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return a.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a value produced by Seal.
func (a *AEAD) Open(ciphertext []byte) ([]byte, error) {
	nonceSize := a.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, data := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := a.gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt value: %w", err)
	}
	return plaintext, nil
}

// SealString and OpenString are convenience wrappers for text columns.
func (a *AEAD) SealString(plaintext string) ([]byte, error) {
	return a.Seal([]byte(plaintext))
}

func (a *AEAD) OpenString(ciphertext []byte) (string, error) {
	plaintext, err := a.Open(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
