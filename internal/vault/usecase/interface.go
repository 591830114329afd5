// Package usecase defines the interfaces and implementations for the vault use
// cases. Vault bodies arrive already encrypted by the client; the server stores
// them, gates access behind the master password verifier and never decrypts.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// VaultRepository defines the interface for Vault persistence operations.
type VaultRepository interface {
	// GetByImageHash returns vaultDomain.ErrVaultNotFound when no vault exists.
	GetByImageHash(ctx context.Context, imageHash string) (*vaultDomain.Vault, error)
	// Create returns vaultDomain.ErrVaultAlreadyExists on a duplicate image hash.
	Create(ctx context.Context, vault *vaultDomain.Vault) error
	// Update replaces the encrypted package and UpdatedAt of the vault with the
	// same image hash. Returns vaultDomain.ErrVaultNotFound when nothing matched.
	Update(ctx context.Context, vault *vaultDomain.Vault) error
}

// VaultUseCase defines the interface for vault business logic.
type VaultUseCase interface {
	Exists(ctx context.Context, imageHash string) (bool, error)
	Create(ctx context.Context, input *vaultDomain.CreateVaultInput) error
	// Unlock returns the stored package byte-for-byte once the master password verifies.
	Unlock(ctx context.Context, imageHash, masterPassword string) (*cryptoDomain.EncryptedPackage, error)
	Update(ctx context.Context, input *vaultDomain.UpdateVaultInput) error
}
