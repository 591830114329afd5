package domain

import (
	"github.com/allisson/imageguard/internal/errors"
)

var (
	// ErrInvalidKeySize indicates a key that is not KeySize bytes long.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidIterations indicates a non-positive key derivation cost.
	ErrInvalidIterations = errors.Wrap(errors.ErrInvalidInput, "invalid key derivation iterations")

	// ErrDecryptionFailed is returned for every decryption failure: wrong password,
	// tampered ciphertext, corrupted salt or iv, or an undecodable package. The cause
	// is not disclosed.
	ErrDecryptionFailed = errors.New("decryption failed")
)
