// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	customValidation "github.com/allisson/imageguard/internal/validation"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// CreateVaultRequest is the body of POST /api/vault/create.
type CreateVaultRequest struct {
	ImageHash      string `json:"imageHash"`
	MasterPassword string `json:"masterPassword"`
	EncryptedData  string `json:"encryptedData"`
	Salt           string `json:"salt"`
	IV             string `json:"iv"`
}

// Validate checks the create request. minPasswordLength is the shortest master
// password accepted for a new vault.
func (r *CreateVaultRequest) Validate(minPasswordLength int) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ImageHash, vaultDomain.ImageHashRules()...),
		validation.Field(&r.MasterPassword,
			validation.Required,
			customValidation.MinLength(minPasswordLength),
		),
		validation.Field(&r.EncryptedData, vaultDomain.EncryptedDataRules()...),
		validation.Field(&r.Salt, vaultDomain.SaltRules()...),
		validation.Field(&r.IV, vaultDomain.IVRules()...),
	)
}

// ToInput maps the request to the use case input.
func (r *CreateVaultRequest) ToInput() *vaultDomain.CreateVaultInput {
	return &vaultDomain.CreateVaultInput{
		ImageHash:      r.ImageHash,
		MasterPassword: r.MasterPassword,
		Package: cryptoDomain.EncryptedPackage{
			EncryptedData: r.EncryptedData,
			Salt:          r.Salt,
			IV:            r.IV,
		},
	}
}

// UnlockVaultRequest is the body of POST /api/vault/unlock.
type UnlockVaultRequest struct {
	ImageHash      string `json:"imageHash"`
	MasterPassword string `json:"masterPassword"`
}

// Validate checks the unlock request.
func (r *UnlockVaultRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ImageHash, vaultDomain.ImageHashRules()...),
		validation.Field(&r.MasterPassword, validation.Required),
	)
}

// UpdateVaultRequest is the body of PUT /api/vault/:imageHash. The image hash
// comes from the URL.
type UpdateVaultRequest struct {
	MasterPassword string `json:"masterPassword"`
	EncryptedData  string `json:"encryptedData"`
	Salt           string `json:"salt"`
	IV             string `json:"iv"`
}

// Validate checks the update request. The master password is only required
// when the server verifies it on update.
func (r *UpdateVaultRequest) Validate(requirePassword bool) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MasterPassword, validation.When(requirePassword, validation.Required)),
		validation.Field(&r.EncryptedData, vaultDomain.EncryptedDataRules()...),
		validation.Field(&r.Salt, vaultDomain.SaltRules()...),
		validation.Field(&r.IV, vaultDomain.IVRules()...),
	)
}

// ToInput maps the request to the use case input.
func (r *UpdateVaultRequest) ToInput(imageHash string) *vaultDomain.UpdateVaultInput {
	return &vaultDomain.UpdateVaultInput{
		ImageHash:      imageHash,
		MasterPassword: r.MasterPassword,
		Package: cryptoDomain.EncryptedPackage{
			EncryptedData: r.EncryptedData,
			Salt:          r.Salt,
			IV:            r.IV,
		},
	}
}
