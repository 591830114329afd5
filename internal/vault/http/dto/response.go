package dto

import (
	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
)

// ExistsResponse is the body of GET /api/vault/:imageHash.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UnlockVaultResponse is the stored encrypted package returned by unlock.
type UnlockVaultResponse struct {
	EncryptedData string `json:"encryptedData"`
	Salt          string `json:"salt"`
	IV            string `json:"iv"`
}

// MapPackageToUnlockResponse converts the stored package to an API response.
func MapPackageToUnlockResponse(pkg *cryptoDomain.EncryptedPackage) UnlockVaultResponse {
	return UnlockVaultResponse{
		EncryptedData: pkg.EncryptedData,
		Salt:          pkg.Salt,
		IV:            pkg.IV,
	}
}
