// Package cryptoutil provides the low-level cryptographic primitives shared by
// the SigV4 verifier and the encrypted store: HMAC chaining, hex/SHA-256,
// constant-time comparison, key derivation, and authenticated encryption.
package cryptoutil

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HMACSHA256 computes HMAC-SHA256(key, data).
func HMACSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// SHA256Hex returns the lowercase hex-encoded SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HexEncode is a convenience wrapper kept alongside SHA256Hex for symmetry
// with the signing key derivation chain, which deals in raw bytes until the
// final signature.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// ConstantTimeEqual reports whether a and b are byte-for-byte identical,
// without leaking the length of a matching prefix through timing. A naive
// short-circuit byte compare must never be used for signature verification.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ConstantTimeEqualString is ConstantTimeEqual for hex-encoded signatures.
func ConstantTimeEqualString(a, b string) bool {
	return ConstantTimeEqual([]byte(a), []byte(b))
}
