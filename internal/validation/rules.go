// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/imageguard/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// MinLength validates that a string has at least N characters, counted as runes.
// An empty string is left to Required.
type MinLength int

// Validate checks the length of value.
func (m MinLength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_min_length_type", "must be a string")
	}
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) < int(m) {
		return validation.NewError(
			"validation_min_length",
			fmt.Sprintf("must be at least %d characters", int(m)),
		)
	}
	return nil
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
