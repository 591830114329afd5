// Package domain defines the vault record and the credential list it protects.
// The server only ever sees the encrypted form of a credential list; Credential
// exists so that clients share one plaintext shape.
package domain

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	customValidation "github.com/allisson/imageguard/internal/validation"
)

// Vault is one stored vault, keyed by the fingerprint of its unlocking image.
type Vault struct {
	// ID is the surrogate primary key (UUIDv7).
	ID uuid.UUID
	// ImageHash is the 64-character lowercase hex fingerprint of the image. Unique.
	ImageHash string
	// MasterPasswordVerifier is a one-way salted hash of the master password.
	MasterPasswordVerifier string
	// EncryptedData, Salt and IV are the base64 parts of the encrypted credential list.
	EncryptedData string
	Salt          string
	IV            string
	// CreatedAt is the UTC timestamp when the vault was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last replace.
	UpdatedAt time.Time
}

// Package returns the stored encrypted package exactly as it was saved.
func (v *Vault) Package() *cryptoDomain.EncryptedPackage {
	return &cryptoDomain.EncryptedPackage{
		EncryptedData: v.EncryptedData,
		Salt:          v.Salt,
		IV:            v.IV,
	}
}

// Credential is one plaintext entry of a vault.
type Credential struct {
	Service  string `json:"service"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate requires every field of the credential to be filled in.
func (c *Credential) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Service, validation.Required, customValidation.NotBlank),
		validation.Field(&c.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&c.Password, validation.Required),
	)
}
