// Package mocks provides mock implementations of the vault services.
package mocks

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher is a mock implementation of PasswordHasher for testing.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a MockPasswordHasher that asserts its
// expectations when the test finishes.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Hash mocks the Hash method of PasswordHasher.
func (m *MockPasswordHasher) Hash(secret string) (string, error) {
	args := m.Called(secret)
	return args.String(0), args.Error(1)
}

// Verify mocks the Verify method of PasswordHasher.
func (m *MockPasswordHasher) Verify(secret, verifier string) bool {
	args := m.Called(secret, verifier)
	return args.Bool(0)
}
