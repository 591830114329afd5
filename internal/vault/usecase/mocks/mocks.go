// Package mocks provides mock implementations of the vault use case interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// MockVaultRepository is a mock implementation of VaultRepository for testing.
type MockVaultRepository struct {
	mock.Mock
}

// NewMockVaultRepository creates a MockVaultRepository that asserts its
// expectations when the test finishes.
func NewMockVaultRepository(t *testing.T) *MockVaultRepository {
	m := &MockVaultRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetByImageHash mocks the GetByImageHash method of VaultRepository.
func (m *MockVaultRepository) GetByImageHash(ctx context.Context, imageHash string) (*vaultDomain.Vault, error) {
	args := m.Called(ctx, imageHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Vault), args.Error(1)
}

// Create mocks the Create method of VaultRepository.
func (m *MockVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	args := m.Called(ctx, vault)
	return args.Error(0)
}

// Update mocks the Update method of VaultRepository.
func (m *MockVaultRepository) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	args := m.Called(ctx, vault)
	return args.Error(0)
}

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// NewMockVaultUseCase creates a MockVaultUseCase that asserts its expectations
// when the test finishes.
func NewMockVaultUseCase(t *testing.T) *MockVaultUseCase {
	m := &MockVaultUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Exists mocks the Exists method of VaultUseCase.
func (m *MockVaultUseCase) Exists(ctx context.Context, imageHash string) (bool, error) {
	args := m.Called(ctx, imageHash)
	return args.Bool(0), args.Error(1)
}

// Create mocks the Create method of VaultUseCase.
func (m *MockVaultUseCase) Create(ctx context.Context, input *vaultDomain.CreateVaultInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// Unlock mocks the Unlock method of VaultUseCase.
func (m *MockVaultUseCase) Unlock(
	ctx context.Context,
	imageHash, masterPassword string,
) (*cryptoDomain.EncryptedPackage, error) {
	args := m.Called(ctx, imageHash, masterPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.EncryptedPackage), args.Error(1)
}

// Update mocks the Update method of VaultUseCase.
func (m *MockVaultUseCase) Update(ctx context.Context, input *vaultDomain.UpdateVaultInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
