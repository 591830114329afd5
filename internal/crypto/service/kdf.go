package service

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
)

// Fingerprint returns the lowercase hex SHA-256 digest of b. It is the lookup key
// of a vault when b is the content of the unlocking image.
func Fingerprint(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// DeriveKey stretches password and salt into a 32-byte key with
// PBKDF2-HMAC-SHA256. The same inputs always give the same key; a different salt
// gives an independent key.
func DeriveKey(password, salt []byte, iterations int) ([]byte, error) {
	if iterations <= 0 {
		return nil, cryptoDomain.ErrInvalidIterations
	}
	return pbkdf2.Key(password, salt, iterations, cryptoDomain.KeySize, sha256.New), nil
}
