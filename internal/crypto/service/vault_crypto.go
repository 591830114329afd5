package service

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
)

// VaultCrypto encrypts and decrypts vault bodies under a master password.
//
// Each Encrypt call draws a fresh salt and nonce, so two encryptions of the same
// body with the same password never share key material or ciphertext. VaultCrypto
// has no mutable state and may be shared between goroutines.
type VaultCrypto struct {
	iterations int
}

// NewVaultCrypto creates a VaultCrypto using the given PBKDF2 iteration count.
// A non-positive count falls back to cryptoDomain.DefaultIterations.
func NewVaultCrypto(iterations int) *VaultCrypto {
	if iterations <= 0 {
		iterations = cryptoDomain.DefaultIterations
	}
	return &VaultCrypto{iterations: iterations}
}

// Iterations returns the PBKDF2 cost in use.
func (v *VaultCrypto) Iterations() int {
	return v.iterations
}

// Fingerprint returns the vault lookup key for the given image bytes.
func (v *VaultCrypto) Fingerprint(b []byte) string {
	return Fingerprint(b)
}

// DeriveKey derives the vault encryption key from password and salt.
func (v *VaultCrypto) DeriveKey(password, salt []byte) ([]byte, error) {
	return DeriveKey(password, salt, v.iterations)
}

// Encrypt JSON-encodes body and seals it with a key derived from password and a
// new random salt.
func (v *VaultCrypto) Encrypt(body any, password []byte) (*cryptoDomain.EncryptedPackage, error) {
	plaintext, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vault body: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := v.DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := NewAESGCM(key)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := cipher.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	return &cryptoDomain.EncryptedPackage{
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
		Salt:          base64.StdEncoding.EncodeToString(salt),
		IV:            base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// Decrypt re-derives the key from the package salt and password, opens the
// ciphertext and JSON-decodes it into out.
//
// Every failure returns cryptoDomain.ErrDecryptionFailed and leaves out untouched
// by partial data. A wrong password is an expected outcome, not a fault.
func (v *VaultCrypto) Decrypt(pkg *cryptoDomain.EncryptedPackage, password []byte, out any) error {
	if pkg == nil {
		return cryptoDomain.ErrDecryptionFailed
	}

	ciphertext, err := base64.StdEncoding.DecodeString(pkg.EncryptedData)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}
	salt, err := base64.StdEncoding.DecodeString(pkg.Salt)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(pkg.IV)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}

	key, err := v.DeriveKey(password, salt)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}
	defer cryptoDomain.Zero(key)

	cipher, err := NewAESGCM(key)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := cipher.Decrypt(ciphertext, nonce, nil)
	if err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}
	defer cryptoDomain.Zero(plaintext)

	if err := json.Unmarshal(plaintext, out); err != nil {
		return cryptoDomain.ErrDecryptionFailed
	}
	return nil
}
