package validation

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinLength(t *testing.T) {
	rule := MinLength(8)

	tests := []struct {
		name      string
		input     interface{}
		shouldErr bool
	}{
		{name: "exactly minimum", input: "12345678", shouldErr: false},
		{name: "longer", input: "a much longer password", shouldErr: false},
		{name: "too short", input: "1234567", shouldErr: true},
		{name: "multibyte counts runes", input: "pässwörd", shouldErr: false},
		{name: "empty left to required", input: "", shouldErr: false},
		{name: "not a string", input: 12345678, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Contains(t, rule.Validate("short").Error(), "at least 8 characters")
}

func TestBase64(t *testing.T) {
	assert.NoError(t, Base64.Validate("aGVsbG8="))
	assert.NoError(t, Base64.Validate(""))
	assert.Error(t, Base64.Validate("not base64!"))
	assert.Error(t, Base64.Validate(42))
}

func TestBase64Bytes(t *testing.T) {
	rule := Base64Bytes(12)

	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "exact length", input: base64.StdEncoding.EncodeToString(make([]byte, 12)), shouldErr: false},
		{name: "too short", input: base64.StdEncoding.EncodeToString(make([]byte, 11)), shouldErr: true},
		{name: "too long", input: base64.StdEncoding.EncodeToString(make([]byte, 16)), shouldErr: true},
		{name: "invalid base64", input: "@@@@", shouldErr: true},
		{name: "empty left to required", input: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLowerHex(t *testing.T) {
	rule := LowerHex(64)
	valid := strings.Repeat("ab01", 16)

	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "valid", input: valid, shouldErr: false},
		{name: "uppercase", input: strings.ToUpper(valid), shouldErr: true},
		{name: "too short", input: valid[:63], shouldErr: true},
		{name: "too long", input: valid + "0", shouldErr: true},
		{name: "non hex", input: strings.Repeat("zz", 32), shouldErr: true},
		{name: "empty left to required", input: "", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "no whitespace",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "leading whitespace",
			input:     " validstring",
			shouldErr: true,
		},
		{
			name:      "trailing whitespace",
			input:     "validstring ",
			shouldErr: true,
		},
		{
			name:      "both leading and trailing",
			input:     " validstring ",
			shouldErr: true,
		},
		{
			name:      "internal spaces allowed",
			input:     "valid string",
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NoWhitespace.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "valid string",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "only spaces",
			input:     "   ",
			shouldErr: true,
		},
		{
			name:      "only tabs",
			input:     "\t\t",
			shouldErr: true,
		},
		{
			name:      "only newlines",
			input:     "\n\n",
			shouldErr: true,
		},
		{
			name:      "mixed whitespace",
			input:     " \t\n ",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error returns nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "wraps validation error",
			err:      assert.AnError,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapValidationError(tt.err)
			if tt.expected {
				assert.Error(t, result)
				assert.Contains(t, result.Error(), "invalid input")
			} else {
				assert.NoError(t, result)
			}
		})
	}
}
