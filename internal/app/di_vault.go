package app

import (
	"fmt"
	"sync"

	"github.com/allisson/imageguard/internal/database"
	vaultHTTP "github.com/allisson/imageguard/internal/vault/http"
	vaultRepository "github.com/allisson/imageguard/internal/vault/repository"
	vaultService "github.com/allisson/imageguard/internal/vault/service"
	vaultUseCase "github.com/allisson/imageguard/internal/vault/usecase"
)

type vaultComponents struct {
	repository     vaultUseCase.VaultRepository
	passwordHasher vaultService.PasswordHasher
	useCase        vaultUseCase.VaultUseCase
	handler        *vaultHTTP.VaultHandler

	repositoryInit     sync.Once
	passwordHasherInit sync.Once
	useCaseInit        sync.Once
	handlerInit        sync.Once
}

// VaultRepository returns the vault store for the configured database driver.
func (c *Container) VaultRepository() (vaultUseCase.VaultRepository, error) {
	var err error
	c.vault.repositoryInit.Do(func() {
		c.vault.repository, err = c.initVaultRepository()
		if err != nil {
			c.setInitError("vaultRepository", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("vaultRepository"); storedErr != nil {
		return nil, storedErr
	}
	return c.vault.repository, nil
}

// PasswordHasher returns the master password verifier service.
func (c *Container) PasswordHasher() (vaultService.PasswordHasher, error) {
	var err error
	c.vault.passwordHasherInit.Do(func() {
		c.vault.passwordHasher, err = vaultService.NewPasswordHasher(
			c.config.VerifierAlgorithm,
			c.config.BcryptCost,
		)
		if err != nil {
			c.setInitError("passwordHasher", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("passwordHasher"); storedErr != nil {
		return nil, storedErr
	}
	return c.vault.passwordHasher, nil
}

// VaultUseCase returns the vault use case, wrapped with metrics.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vault.useCaseInit.Do(func() {
		c.vault.useCase, err = c.initVaultUseCase()
		if err != nil {
			c.setInitError("vaultUseCase", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("vaultUseCase"); storedErr != nil {
		return nil, storedErr
	}
	return c.vault.useCase, nil
}

// VaultHandler returns the HTTP handler for the vault API.
func (c *Container) VaultHandler() (*vaultHTTP.VaultHandler, error) {
	var err error
	c.vault.handlerInit.Do(func() {
		c.vault.handler, err = c.initVaultHandler()
		if err != nil {
			c.setInitError("vaultHandler", err)
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr := c.initError("vaultHandler"); storedErr != nil {
		return nil, storedErr
	}
	return c.vault.handler, nil
}

func (c *Container) initVaultRepository() (vaultUseCase.VaultRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for vault repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return vaultRepository.NewMySQLVaultRepository(db), nil
	case database.DriverPostgres:
		return vaultRepository.NewPostgreSQLVaultRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for vault use case: %w", err)
	}

	vaultRepo, err := c.VaultRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault repository for vault use case: %w", err)
	}

	hasher, err := c.PasswordHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get password hasher for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(
		txManager,
		vaultRepo,
		hasher,
		c.config.VaultUpdateRequirePassword,
	)

	vaultMetrics, err := c.VaultMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault metrics for vault use case: %w", err)
	}

	return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, vaultMetrics), nil
}

func (c *Container) initVaultHandler() (*vaultHTTP.VaultHandler, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for vault handler: %w", err)
	}

	return vaultHTTP.NewVaultHandler(
		useCase,
		c.config.MasterPasswordMinLength,
		c.config.VaultUpdateRequirePassword,
		c.Logger(),
	), nil
}
