package domain

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	customValidation "github.com/allisson/imageguard/internal/validation"
)

// ImageHashRules are the rules every image hash must satisfy.
func ImageHashRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		customValidation.LowerHex(cryptoDomain.FingerprintLength),
	}
}

// EncryptedDataRules are the rules for the base64 ciphertext.
func EncryptedDataRules() []validation.Rule {
	return []validation.Rule{validation.Required, customValidation.Base64}
}

// SaltRules are the rules for the base64 KDF salt.
func SaltRules() []validation.Rule {
	return []validation.Rule{validation.Required, customValidation.Base64Bytes(cryptoDomain.SaltSize)}
}

// IVRules are the rules for the base64 AES-GCM nonce.
func IVRules() []validation.Rule {
	return []validation.Rule{validation.Required, customValidation.Base64Bytes(cryptoDomain.NonceSize)}
}

// CreateVaultInput holds everything needed to create a vault.
type CreateVaultInput struct {
	ImageHash      string
	MasterPassword string
	Package        cryptoDomain.EncryptedPackage
}

// UpdateVaultInput replaces the encrypted package of an existing vault.
// MasterPassword is verified before the replace unless the use case was built
// with password checks on update disabled.
type UpdateVaultInput struct {
	ImageHash      string
	MasterPassword string
	Package        cryptoDomain.EncryptedPackage
}
