package testutil

import (
	"context"
	"sync"

	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// VaultStore is an in-memory vault repository. Create is check-and-insert under
// one lock, so it behaves like a store with a unique index on the image hash.
type VaultStore struct {
	mu     sync.Mutex
	vaults map[string]vaultDomain.Vault
}

// NewVaultStore creates an empty VaultStore.
func NewVaultStore() *VaultStore {
	return &VaultStore{vaults: make(map[string]vaultDomain.Vault)}
}

// Create inserts vault or returns ErrVaultAlreadyExists.
func (s *VaultStore) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vaults[vault.ImageHash]; ok {
		return vaultDomain.ErrVaultAlreadyExists
	}
	s.vaults[vault.ImageHash] = *vault
	return nil
}

// GetByImageHash returns a copy of the stored vault or ErrVaultNotFound.
func (s *VaultStore) GetByImageHash(ctx context.Context, imageHash string) (*vaultDomain.Vault, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vault, ok := s.vaults[imageHash]
	if !ok {
		return nil, vaultDomain.ErrVaultNotFound
	}
	return &vault, nil
}

// Update replaces the encrypted package and updated_at of an existing vault.
func (s *VaultStore) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.vaults[vault.ImageHash]
	if !ok {
		return vaultDomain.ErrVaultNotFound
	}
	stored.EncryptedData = vault.EncryptedData
	stored.Salt = vault.Salt
	stored.IV = vault.IV
	stored.UpdatedAt = vault.UpdatedAt
	s.vaults[vault.ImageHash] = stored
	return nil
}

// Len returns the number of stored vaults.
func (s *VaultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vaults)
}

// TxManager runs fn directly. It satisfies database.TxManager for tests that
// work against VaultStore.
type TxManager struct{}

// WithTx calls fn with ctx.
func (TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
