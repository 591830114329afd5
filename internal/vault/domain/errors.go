package domain

import (
	"github.com/allisson/imageguard/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrVaultNotFound indicates no vault exists for the image hash.
	ErrVaultNotFound = errors.Wrap(errors.ErrNotFound, "vault not found")

	// ErrVaultAlreadyExists indicates a vault already exists for the image hash.
	ErrVaultAlreadyExists = errors.Wrap(errors.ErrConflict, "vault already exists for this image")

	// ErrInvalidMasterPassword indicates the master password did not verify.
	ErrInvalidMasterPassword = errors.Wrap(errors.ErrUnauthorized, "invalid master password")
)
