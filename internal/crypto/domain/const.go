// Package domain defines the client-side vault encryption format: the encrypted
// package that crosses the network, the sizes its fields must have, and the
// errors returned by the crypto service.
package domain

const (
	// KeySize is the length in bytes of a derived AES-256 key.
	KeySize = 32

	// SaltSize is the length in bytes of the PBKDF2 salt stored with each vault.
	SaltSize = 16

	// NonceSize is the length in bytes of the AES-GCM nonce (iv).
	NonceSize = 12

	// TagSize is the length in bytes of the GCM authentication tag appended to the ciphertext.
	TagSize = 16

	// DefaultIterations is the PBKDF2-HMAC-SHA256 cost used when none is configured.
	DefaultIterations = 100000

	// FingerprintLength is the length of a hex-encoded SHA-256 fingerprint.
	FingerprintLength = 64
)
