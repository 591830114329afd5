package app

import (
	"sync"

	"github.com/allisson/imageguard/internal/client"
	cryptoService "github.com/allisson/imageguard/internal/crypto/service"
)

type clientComponents struct {
	vaultCrypto *cryptoService.VaultCrypto
	apiClient   *client.APIClient

	vaultCryptoInit sync.Once
	apiClientInit   sync.Once
}

// VaultCrypto returns the client side vault crypto service.
func (c *Container) VaultCrypto() *cryptoService.VaultCrypto {
	c.client.vaultCryptoInit.Do(func() {
		c.client.vaultCrypto = cryptoService.NewVaultCrypto(c.config.KDFIterations)
	})
	return c.client.vaultCrypto
}

// VaultAPIClient returns the HTTP client for the vault API at VaultAPIURL.
func (c *Container) VaultAPIClient() *client.APIClient {
	c.client.apiClientInit.Do(func() {
		c.client.apiClient = client.NewAPIClient(c.config.VaultAPIURL, c.config.ClientTimeout)
	})
	return c.client.apiClient
}

// NewSession returns a new locked client session. Sessions are not shared, so
// every call builds a fresh one.
func (c *Container) NewSession() *client.Session {
	return client.NewSession(c.VaultAPIClient(), c.VaultCrypto(), c.config.MasterPasswordMinLength)
}
