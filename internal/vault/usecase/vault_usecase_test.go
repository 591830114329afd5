package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	databaseMocks "github.com/allisson/imageguard/internal/database/mocks"
	apperrors "github.com/allisson/imageguard/internal/errors"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
	vaultServiceMocks "github.com/allisson/imageguard/internal/vault/service/mocks"
	vaultUsecaseMocks "github.com/allisson/imageguard/internal/vault/usecase/mocks"
)

var (
	testImageHash = strings.Repeat("ab", 32)
	testPackage   = cryptoDomain.EncryptedPackage{
		EncryptedData: "Y2lwaGVydGV4dA==",
		Salt:          "AAAAAAAAAAAAAAAAAAAAAA==",
		IV:            "AAAAAAAAAAAAAAAA",
	}
)

func storedVault() *vaultDomain.Vault {
	return &vaultDomain.Vault{
		ImageHash:              testImageHash,
		MasterPasswordVerifier: "$argon2id$verifier",
		EncryptedData:          testPackage.EncryptedData,
		Salt:                   testPackage.Salt,
		IV:                     testPackage.IV,
	}
}

type useCaseMocks struct {
	tx     *databaseMocks.MockTxManager
	repo   *vaultUsecaseMocks.MockVaultRepository
	hasher *vaultServiceMocks.MockPasswordHasher
}

func newTestUseCase(t *testing.T, updateRequiresPassword bool) (VaultUseCase, useCaseMocks) {
	m := useCaseMocks{
		tx:     databaseMocks.NewMockTxManager(t),
		repo:   vaultUsecaseMocks.NewMockVaultRepository(t),
		hasher: vaultServiceMocks.NewMockPasswordHasher(t),
	}
	return NewVaultUseCase(m.tx, m.repo, m.hasher, updateRequiresPassword), m
}

func TestVaultUseCase_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Exists", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(storedVault(), nil).Once()

		exists, err := uc.Exists(ctx, testImageHash)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Success_DoesNotExist", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(nil, vaultDomain.ErrVaultNotFound).Once()

		exists, err := uc.Exists(ctx, testImageHash)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		storeErr := errors.New("connection refused")
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(nil, storeErr).Once()

		exists, err := uc.Exists(ctx, testImageHash)
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, exists)
		assert.False(t, apperrors.IsDomain(err))
	})
}

func TestVaultUseCase_Create(t *testing.T) {
	ctx := context.Background()
	input := &vaultDomain.CreateVaultInput{
		ImageHash:      testImageHash,
		MasterPassword: "password123",
		Package:        testPackage,
	}

	t.Run("Success_StoresVerifierAndPackage", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(nil, vaultDomain.ErrVaultNotFound).Once()
		m.hasher.On("Hash", "password123").Return("$argon2id$new", nil).Once()
		m.repo.On("Create", ctx, mock.MatchedBy(func(v *vaultDomain.Vault) bool {
			return v.ImageHash == testImageHash &&
				v.MasterPasswordVerifier == "$argon2id$new" &&
				v.EncryptedData == testPackage.EncryptedData &&
				v.Salt == testPackage.Salt &&
				v.IV == testPackage.IV &&
				v.ID.Version() == 7 &&
				!v.CreatedAt.IsZero() &&
				v.CreatedAt.Equal(v.UpdatedAt)
		})).Return(nil).Once()

		require.NoError(t, uc.Create(ctx, input))
	})

	t.Run("Error_AlreadyExists", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(storedVault(), nil).Once()

		err := uc.Create(ctx, input)
		assert.ErrorIs(t, err, vaultDomain.ErrVaultAlreadyExists)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Error_LostInsertRace", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(nil, vaultDomain.ErrVaultNotFound).Once()
		m.hasher.On("Hash", "password123").Return("$argon2id$new", nil).Once()
		m.repo.On("Create", ctx, mock.Anything).Return(vaultDomain.ErrVaultAlreadyExists).Once()

		assert.ErrorIs(t, uc.Create(ctx, input), apperrors.ErrConflict)
	})

	t.Run("Error_HashFailure", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		hashErr := errors.New("out of memory")
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(nil, vaultDomain.ErrVaultNotFound).Once()
		m.hasher.On("Hash", "password123").Return("", hashErr).Once()

		assert.ErrorIs(t, uc.Create(ctx, input), hashErr)
	})
}

func TestVaultUseCase_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsStoredPackage", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(storedVault(), nil).Once()
		m.hasher.On("Verify", "password123", "$argon2id$verifier").Return(true).Once()

		pkg, err := uc.Unlock(ctx, testImageHash, "password123")
		require.NoError(t, err)
		assert.Equal(t, testPackage, *pkg)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(nil, vaultDomain.ErrVaultNotFound).Once()

		pkg, err := uc.Unlock(ctx, testImageHash, "password123")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Nil(t, pkg)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(storedVault(), nil).Once()
		m.hasher.On("Verify", "wrong", "$argon2id$verifier").Return(false).Once()

		pkg, err := uc.Unlock(ctx, testImageHash, "wrong")
		assert.ErrorIs(t, err, vaultDomain.ErrInvalidMasterPassword)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Nil(t, pkg)
	})
}

func TestVaultUseCase_Update(t *testing.T) {
	ctx := context.Background()
	newPackage := cryptoDomain.EncryptedPackage{
		EncryptedData: "bmV3LWNpcGhlcnRleHQ=",
		Salt:          "AQEBAQEBAQEBAQEBAQEBAQ==",
		IV:            "AQEBAQEBAQEBAQEB",
	}
	input := &vaultDomain.UpdateVaultInput{
		ImageHash:      testImageHash,
		MasterPassword: "password123",
		Package:        newPackage,
	}
	replaced := mock.MatchedBy(func(v *vaultDomain.Vault) bool {
		return v.ImageHash == testImageHash &&
			v.EncryptedData == newPackage.EncryptedData &&
			v.Salt == newPackage.Salt &&
			v.IV == newPackage.IV &&
			v.MasterPasswordVerifier == "$argon2id$verifier" &&
			!v.UpdatedAt.IsZero()
	})

	t.Run("Success_ReplacesPackage", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.tx.PassThrough().Once()
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(storedVault(), nil).Once()
		m.hasher.On("Verify", "password123", "$argon2id$verifier").Return(true).Once()
		m.repo.On("Update", ctx, replaced).Return(nil).Once()

		require.NoError(t, uc.Update(ctx, input))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.tx.PassThrough().Once()
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(nil, vaultDomain.ErrVaultNotFound).Once()

		assert.ErrorIs(t, uc.Update(ctx, input), apperrors.ErrNotFound)
	})

	t.Run("Error_WrongPassword", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		m.tx.PassThrough().Once()
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(storedVault(), nil).Once()
		m.hasher.On("Verify", "password123", "$argon2id$verifier").Return(false).Once()

		assert.ErrorIs(t, uc.Update(ctx, input), vaultDomain.ErrInvalidMasterPassword)
	})

	t.Run("Success_PasswordCheckDisabled", func(t *testing.T) {
		uc, m := newTestUseCase(t, false)
		m.tx.PassThrough().Once()
		m.repo.On("GetByImageHash", ctx, testImageHash).Return(storedVault(), nil).Once()
		m.repo.On("Update", ctx, replaced).Return(nil).Once()

		require.NoError(t, uc.Update(ctx, input))
		m.hasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("Error_TransactionFailure", func(t *testing.T) {
		uc, m := newTestUseCase(t, true)
		txErr := errors.New("begin failed")
		m.tx.On("WithTx", ctx, mock.Anything).Return(txErr).Once()

		assert.ErrorIs(t, uc.Update(ctx, input), txErr)
	})
}
