// Package mocks provides mock implementations of the client interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
)

// MockVaultAPI is a mock implementation of VaultAPI for testing.
type MockVaultAPI struct {
	mock.Mock
}

// NewMockVaultAPI creates a MockVaultAPI that asserts its expectations when the
// test finishes.
func NewMockVaultAPI(t *testing.T) *MockVaultAPI {
	m := &MockVaultAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Exists mocks the Exists method of VaultAPI.
func (m *MockVaultAPI) Exists(ctx context.Context, imageHash string) (bool, error) {
	args := m.Called(ctx, imageHash)
	return args.Bool(0), args.Error(1)
}

// Create mocks the Create method of VaultAPI.
func (m *MockVaultAPI) Create(
	ctx context.Context,
	imageHash, masterPassword string,
	pkg *cryptoDomain.EncryptedPackage,
) error {
	args := m.Called(ctx, imageHash, masterPassword, pkg)
	return args.Error(0)
}

// Unlock mocks the Unlock method of VaultAPI.
func (m *MockVaultAPI) Unlock(
	ctx context.Context,
	imageHash, masterPassword string,
) (*cryptoDomain.EncryptedPackage, error) {
	args := m.Called(ctx, imageHash, masterPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedPackage), args.Error(1)
}

// Update mocks the Update method of VaultAPI.
func (m *MockVaultAPI) Update(
	ctx context.Context,
	imageHash, masterPassword string,
	pkg *cryptoDomain.EncryptedPackage,
) error {
	args := m.Called(ctx, imageHash, masterPassword, pkg)
	return args.Error(0)
}
