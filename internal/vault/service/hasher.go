// Package service provides the master password verifier used by the vault use
// cases. Verifiers are one-way, salted per call, and unrelated to the salt the
// client uses for key derivation.
package service

import (
	"fmt"
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/allisson/imageguard/internal/errors"
)

// Supported verifier algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

const argon2idPrefix = "$argon2id$"

// PasswordHasher turns a master password into a stored verifier and checks a
// candidate against it.
type PasswordHasher interface {
	// Hash returns a new verifier for secret.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches verifier. Malformed verifiers never
	// match.
	Verify(secret, verifier string) bool
}

type passwordHasher struct {
	algorithm  string
	argon2     *pwdhash.PasswordHasher
	bcryptCost int
}

// NewPasswordHasher creates a PasswordHasher that hashes with algorithm and
// verifies any verifier produced by a supported algorithm.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	switch algorithm {
	case AlgorithmArgon2id, AlgorithmBcrypt:
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported verifier algorithm %q", algorithm)
	}

	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "bcrypt cost %d out of range", bcryptCost)
	}

	argon2, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, fmt.Errorf("failed to create argon2id hasher: %w", err)
	}

	return &passwordHasher{
		algorithm:  algorithm,
		argon2:     argon2,
		bcryptCost: bcryptCost,
	}, nil
}

func (h *passwordHasher) Hash(secret string) (string, error) {
	if h.algorithm == AlgorithmBcrypt {
		verifier, err := bcrypt.GenerateFromPassword([]byte(secret), h.bcryptCost)
		if err == bcrypt.ErrPasswordTooLong {
			return "", apperrors.Wrap(apperrors.ErrInvalidInput, "master password is too long")
		}
		if err != nil {
			return "", apperrors.Wrap(err, "failed to hash master password")
		}
		return string(verifier), nil
	}

	verifier, err := h.argon2.Hash([]byte(secret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash master password")
	}
	return verifier, nil
}

func (h *passwordHasher) Verify(secret, verifier string) bool {
	switch {
	case strings.HasPrefix(verifier, argon2idPrefix):
		ok, err := h.argon2.Verify([]byte(secret), verifier)
		return err == nil && ok
	case strings.HasPrefix(verifier, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(secret)) == nil
	default:
		return false
	}
}
