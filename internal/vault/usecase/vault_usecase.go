package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	"github.com/allisson/imageguard/internal/database"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
	vaultService "github.com/allisson/imageguard/internal/vault/service"
)

// vaultUseCase implements the VaultUseCase interface.
type vaultUseCase struct {
	txManager              database.TxManager
	vaultRepo              VaultRepository
	hasher                 vaultService.PasswordHasher
	updateRequiresPassword bool
	now                    func() time.Time
}

// Exists reports whether a vault is registered for imageHash.
func (v *vaultUseCase) Exists(ctx context.Context, imageHash string) (bool, error) {
	_, err := v.vaultRepo.GetByImageHash(ctx, imageHash)
	if errors.Is(err, vaultDomain.ErrVaultNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create stores a new vault. The existence check gives the common case a clean
// conflict; the repository unique constraint settles concurrent creates.
func (v *vaultUseCase) Create(ctx context.Context, input *vaultDomain.CreateVaultInput) error {
	exists, err := v.Exists(ctx, input.ImageHash)
	if err != nil {
		return err
	}
	if exists {
		return vaultDomain.ErrVaultAlreadyExists
	}

	verifier, err := v.hasher.Hash(input.MasterPassword)
	if err != nil {
		return err
	}

	now := v.now()
	vault := &vaultDomain.Vault{
		ID:                     uuid.Must(uuid.NewV7()),
		ImageHash:              input.ImageHash,
		MasterPasswordVerifier: verifier,
		EncryptedData:          input.Package.EncryptedData,
		Salt:                   input.Package.Salt,
		IV:                     input.Package.IV,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	return v.vaultRepo.Create(ctx, vault)
}

// Unlock returns the encrypted package once masterPassword verifies.
func (v *vaultUseCase) Unlock(
	ctx context.Context,
	imageHash, masterPassword string,
) (*cryptoDomain.EncryptedPackage, error) {
	vault, err := v.vaultRepo.GetByImageHash(ctx, imageHash)
	if err != nil {
		return nil, err
	}

	if !v.hasher.Verify(masterPassword, vault.MasterPasswordVerifier) {
		return nil, vaultDomain.ErrInvalidMasterPassword
	}

	return vault.Package(), nil
}

// Update replaces the encrypted package of an existing vault. The lookup, the
// optional password check and the replace share one transaction.
func (v *vaultUseCase) Update(ctx context.Context, input *vaultDomain.UpdateVaultInput) error {
	return v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		vault, err := v.vaultRepo.GetByImageHash(txCtx, input.ImageHash)
		if err != nil {
			return err
		}

		if v.updateRequiresPassword && !v.hasher.Verify(input.MasterPassword, vault.MasterPasswordVerifier) {
			return vaultDomain.ErrInvalidMasterPassword
		}

		vault.EncryptedData = input.Package.EncryptedData
		vault.Salt = input.Package.Salt
		vault.IV = input.Package.IV
		vault.UpdatedAt = v.now()

		return v.vaultRepo.Update(txCtx, vault)
	})
}

// NewVaultUseCase creates a new vault use case instance with the provided dependencies.
func NewVaultUseCase(
	txManager database.TxManager,
	vaultRepo VaultRepository,
	hasher vaultService.PasswordHasher,
	updateRequiresPassword bool,
) VaultUseCase {
	return &vaultUseCase{
		txManager:              txManager,
		vaultRepo:              vaultRepo,
		hasher:                 hasher,
		updateRequiresPassword: updateRequiresPassword,
		now:                    func() time.Time { return time.Now().UTC() },
	}
}
