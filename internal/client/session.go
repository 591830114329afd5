package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	apperrors "github.com/allisson/imageguard/internal/errors"
	customValidation "github.com/allisson/imageguard/internal/validation"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// DefaultMinPasswordLength is the shortest master password accepted for a new vault.
const DefaultMinPasswordLength = 8

// VaultAPI is the server side of the vault protocol. APIClient implements it.
type VaultAPI interface {
	Exists(ctx context.Context, imageHash string) (bool, error)
	Create(ctx context.Context, imageHash, masterPassword string, pkg *cryptoDomain.EncryptedPackage) error
	Unlock(ctx context.Context, imageHash, masterPassword string) (*cryptoDomain.EncryptedPackage, error)
	Update(ctx context.Context, imageHash, masterPassword string, pkg *cryptoDomain.EncryptedPackage) error
}

// VaultCipher fingerprints images and seals vault bodies. The crypto
// service's VaultCrypto implements it.
type VaultCipher interface {
	Fingerprint(b []byte) string
	Encrypt(body any, password []byte) (*cryptoDomain.EncryptedPackage, error)
	Decrypt(pkg *cryptoDomain.EncryptedPackage, password []byte, out any) error
}

// Session holds one user's vault state: the identified image, and once
// unlocked, the master password and the decrypted credential list.
//
// Every change to the list is encrypted and saved as a whole before the local
// copy changes, so a failed save leaves the session as it was. Lock wipes the
// password and drops the entries. A Session is safe for concurrent use.
type Session struct {
	api               VaultAPI
	cipher            VaultCipher
	minPasswordLength int

	mu        sync.Mutex
	imageHash string
	exists    bool
	unlocked  bool
	password  []byte
	entries   []vaultDomain.Credential
}

// NewSession creates a locked session. A non-positive minPasswordLength falls
// back to DefaultMinPasswordLength.
func NewSession(api VaultAPI, cipher VaultCipher, minPasswordLength int) *Session {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	return &Session{
		api:               api,
		cipher:            cipher,
		minPasswordLength: minPasswordLength,
	}
}

// Identify fingerprints the image read from r and asks the server whether a
// vault exists for it. Any previously unlocked vault is locked first.
func (s *Session) Identify(ctx context.Context, r io.Reader) (bool, error) {
	image, err := io.ReadAll(r)
	if err != nil {
		return false, fmt.Errorf("failed to read image: %w", err)
	}
	imageHash := s.cipher.Fingerprint(image)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lock()

	exists, err := s.api.Exists(ctx, imageHash)
	if err != nil {
		return false, err
	}

	s.imageHash = imageHash
	s.exists = exists
	return exists, nil
}

// ImageHash returns the fingerprint of the identified image, or "" before Identify.
func (s *Session) ImageHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imageHash
}

// Exists reports whether the identified image has a vault.
func (s *Session) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exists
}

// Unlocked reports whether the session holds a decrypted vault.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked
}

// Create registers an empty vault for the identified image under password and
// leaves the session unlocked. The password length is checked before anything
// is sent. The caller keeps ownership of password.
func (s *Session) Create(ctx context.Context, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.imageHash == "" {
		return ErrNoImage
	}
	if s.exists {
		return vaultDomain.ErrVaultAlreadyExists
	}
	if err := validation.Validate(
		string(password),
		validation.Required,
		customValidation.MinLength(s.minPasswordLength),
	); err != nil {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooShort, s.minPasswordLength)
	}

	entries := []vaultDomain.Credential{}
	pkg, err := s.cipher.Encrypt(entries, password)
	if err != nil {
		return fmt.Errorf("failed to encrypt vault: %w", err)
	}

	if err := s.api.Create(ctx, s.imageHash, string(password), pkg); err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			s.exists = true
		}
		return err
	}

	s.exists = true
	s.open(password, entries)
	return nil
}

// Unlock asks the server to verify password and decrypts the returned vault.
// A server rejection and a local decryption failure both return
// ErrIncorrectPassword. The caller keeps ownership of password.
func (s *Session) Unlock(ctx context.Context, password []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.imageHash == "" {
		return ErrNoImage
	}
	if !s.exists {
		return vaultDomain.ErrVaultNotFound
	}
	s.wipe()

	pkg, err := s.api.Unlock(ctx, s.imageHash, string(password))
	if apperrors.Is(err, apperrors.ErrUnauthorized) {
		return ErrIncorrectPassword
	}
	if err != nil {
		return err
	}

	var entries []vaultDomain.Credential
	if err := s.cipher.Decrypt(pkg, password, &entries); err != nil {
		return ErrIncorrectPassword
	}
	if entries == nil {
		entries = []vaultDomain.Credential{}
	}

	s.open(password, entries)
	return nil
}

// Entries returns a copy of the decrypted credential list.
func (s *Session) Entries() ([]vaultDomain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return nil, ErrVaultLocked
	}
	return slices.Clone(s.entries), nil
}

// Add appends cred and saves the vault.
func (s *Session) Add(ctx context.Context, cred vaultDomain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEntry(cred); err != nil {
		return err
	}
	next := append(slices.Clone(s.entries), cred)
	return s.save(ctx, next)
}

// Replace overwrites the entry at index and saves the vault.
func (s *Session) Replace(ctx context.Context, index int, cred vaultDomain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEntry(cred); err != nil {
		return err
	}
	if index < 0 || index >= len(s.entries) {
		return ErrEntryNotFound
	}
	next := slices.Clone(s.entries)
	next[index] = cred
	return s.save(ctx, next)
}

// Delete removes the entry at index and saves the vault.
func (s *Session) Delete(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.unlocked {
		return ErrVaultLocked
	}
	if index < 0 || index >= len(s.entries) {
		return ErrEntryNotFound
	}
	next := slices.Delete(slices.Clone(s.entries), index, index+1)
	return s.save(ctx, next)
}

// Lock wipes the master password, drops the entries and forgets the image.
// It is safe to call more than once.
func (s *Session) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lock()
}

func (s *Session) checkEntry(cred vaultDomain.Credential) error {
	if !s.unlocked {
		return ErrVaultLocked
	}
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return nil
}

// save encrypts next under a fresh salt and nonce, sends it and only then
// commits it locally.
func (s *Session) save(ctx context.Context, next []vaultDomain.Credential) error {
	pkg, err := s.cipher.Encrypt(next, s.password)
	if err != nil {
		return fmt.Errorf("failed to encrypt vault: %w", err)
	}
	if err := s.api.Update(ctx, s.imageHash, string(s.password), pkg); err != nil {
		return err
	}
	s.entries = next
	return nil
}

func (s *Session) open(password []byte, entries []vaultDomain.Credential) {
	s.wipe()
	s.password = bytes.Clone(password)
	s.entries = entries
	s.unlocked = true
}

// wipe zeroes the held password and drops the decrypted entries.
func (s *Session) wipe() {
	cryptoDomain.Zero(s.password)
	s.password = nil
	s.entries = nil
	s.unlocked = false
}

func (s *Session) lock() {
	s.wipe()
	s.imageHash = ""
	s.exists = false
}
