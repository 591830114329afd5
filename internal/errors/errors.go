// Package errors provides the domain error taxonomy shared by the vault service.
// Use cases return these sentinels (or domain errors wrapping them) and the HTTP
// layer maps them to status codes. Storage faults are never one of these and
// surface as internal errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a submitted credential did not verify.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsDomain reports whether err belongs to the domain taxonomy, i.e. it is safe to
// describe to a caller. Anything else is an internal fault.
func IsDomain(err error) bool {
	return Is(err, ErrNotFound) ||
		Is(err, ErrConflict) ||
		Is(err, ErrInvalidInput) ||
		Is(err, ErrUnauthorized) ||
		Is(err, ErrForbidden)
}
