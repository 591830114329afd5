// Package service implements the client-side vault cryptography. Nothing in this
// package talks to the network or to storage: it turns a master password and a
// vault body into an encrypted package and back.
package service

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt seals plaintext with a freshly generated random nonce and returns both.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext sealed under nonce and aad. Any authentication
	// failure is returned as an error, never as partial plaintext.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}
