package client

import (
	apperrors "github.com/allisson/imageguard/internal/errors"
)

var (
	// ErrNoImage is returned when a vault operation runs before Identify.
	ErrNoImage = apperrors.Wrap(apperrors.ErrInvalidInput, "no image identified")

	// ErrVaultLocked is returned when entries are accessed on a locked session.
	ErrVaultLocked = apperrors.Wrap(apperrors.ErrForbidden, "vault is locked")

	// ErrPasswordTooShort is returned by Create for a master password below the minimum length.
	ErrPasswordTooShort = apperrors.Wrap(apperrors.ErrInvalidInput, "master password is too short")

	// ErrIncorrectPassword covers both a server side rejection and a local
	// decryption failure during unlock.
	ErrIncorrectPassword = apperrors.Wrap(apperrors.ErrUnauthorized, "incorrect password or corrupt data")

	// ErrEntryNotFound is returned for an entry index outside the vault.
	ErrEntryNotFound = apperrors.Wrap(apperrors.ErrNotFound, "entry not found")

	// ErrInvalidEntry is returned when a credential is missing a field.
	ErrInvalidEntry = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid entry")
)
