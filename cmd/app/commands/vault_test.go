package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/imageguard/internal/client"
	clientMocks "github.com/allisson/imageguard/internal/client/mocks"
	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	cryptoService "github.com/allisson/imageguard/internal/crypto/service"
	apperrors "github.com/allisson/imageguard/internal/errors"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

const masterPassword = "correct-horse-battery"

var (
	mailEntry = vaultDomain.Credential{Service: "mail", Username: "u", Password: "hunter22"}
	bankEntry = vaultDomain.Credential{Service: "bank", Username: "alice", Password: "s3cret!!"}
)

type vaultFixture struct {
	api       *clientMocks.MockVaultAPI
	crypto    *cryptoService.VaultCrypto
	session   *client.Session
	logger    *slog.Logger
	imagePath string
	imageHash string
}

func newVaultFixture(t *testing.T) vaultFixture {
	t.Helper()
	image := []byte("\x89PNG cli test image")
	imagePath := filepath.Join(t.TempDir(), "key.png")
	require.NoError(t, os.WriteFile(imagePath, image, 0o600))

	crypto := cryptoService.NewVaultCrypto(1000)
	api := clientMocks.NewMockVaultAPI(t)
	return vaultFixture{
		api:       api,
		crypto:    crypto,
		session:   client.NewSession(api, crypto, client.DefaultMinPasswordLength),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		imagePath: imagePath,
		imageHash: crypto.Fingerprint(image),
	}
}

// stored makes the mock server hold a vault with entries under masterPassword.
func (f vaultFixture) stored(t *testing.T, entries []vaultDomain.Credential) {
	t.Helper()
	pkg, err := f.crypto.Encrypt(entries, []byte(masterPassword))
	require.NoError(t, err)
	f.api.On("Exists", mock.Anything, f.imageHash).Return(true, nil).Once()
	f.api.On("Unlock", mock.Anything, f.imageHash, masterPassword).Return(pkg, nil).Once()
}

func (f vaultFixture) expectUpdate(want []vaultDomain.Credential) {
	matcher := mock.MatchedBy(func(pkg *cryptoDomain.EncryptedPackage) bool {
		var got []vaultDomain.Credential
		if err := f.crypto.Decrypt(pkg, []byte(masterPassword), &got); err != nil {
			return false
		}
		return assert.ObjectsAreEqual(want, got)
	})
	f.api.On("Update", mock.Anything, f.imageHash, masterPassword, matcher).Return(nil).Once()
}

// passwords returns a reader that answers each prompt with the next value.
func passwords(t *testing.T, values ...string) PasswordReader {
	t.Helper()
	return func(prompt string) ([]byte, error) {
		if len(values) == 0 {
			t.Fatalf("unexpected password prompt %q", prompt)
		}
		v := values[0]
		values = values[1:]
		return []byte(v), nil
	}
}

func TestRunFingerprint(t *testing.T) {
	f := newVaultFixture(t)

	t.Run("text-output", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunFingerprint(f.imagePath, &out, "text"))
		assert.Equal(t, f.imageHash+"\n", out.String())
	})

	t.Run("json-output", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunFingerprint(f.imagePath, &out, "json"))
		assert.Contains(t, out.String(), `"fingerprint": "`+f.imageHash+`"`)
	})

	t.Run("missing-image", func(t *testing.T) {
		err := RunFingerprint(filepath.Join(t.TempDir(), "nope.png"), &bytes.Buffer{}, "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read image")
	})

	t.Run("empty-path", func(t *testing.T) {
		err := RunFingerprint("", &bytes.Buffer{}, "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "image path is required")
	})
}

func TestRunVaultStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("existing-vault", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(true, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunVaultStatus(ctx, f.session, f.logger, f.imagePath, &out, "text"))
		assert.Contains(t, out.String(), "Vault found for image "+f.imageHash)
		assert.Empty(t, f.session.ImageHash())
	})

	t.Run("json-output", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(false, nil).Once()

		var out bytes.Buffer
		require.NoError(t, RunVaultStatus(ctx, f.session, f.logger, f.imagePath, &out, "json"))
		assert.Contains(t, out.String(), `"exists": false`)
		assert.Contains(t, out.String(), `"image_hash": "`+f.imageHash+`"`)
	})

	t.Run("server-error", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(false, apperrors.ErrInvalidInput).Once()

		err := RunVaultStatus(ctx, f.session, f.logger, f.imagePath, &bytes.Buffer{}, "text")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestRunVaultCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(false, nil).Once()
		f.api.On("Create", mock.Anything, f.imageHash, masterPassword, mock.Anything).Return(nil).Once()

		var out bytes.Buffer
		err := RunVaultCreate(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword, masterPassword), &out, "text",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Vault created for image "+f.imageHash)
		assert.False(t, f.session.Unlocked())
	})

	t.Run("confirmation-mismatch", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(false, nil).Once()

		err := RunVaultCreate(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword, "something-else"), &bytes.Buffer{}, "text",
		)
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		f.api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("short-password", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(false, nil).Once()

		err := RunVaultCreate(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, "short", "short"), &bytes.Buffer{}, "text",
		)
		assert.ErrorIs(t, err, client.ErrPasswordTooShort)
		f.api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already-exists", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(true, nil).Once()

		err := RunVaultCreate(ctx, f.session, f.logger, f.imagePath, passwords(t), &bytes.Buffer{}, "text")
		assert.ErrorIs(t, err, vaultDomain.ErrVaultAlreadyExists)
	})
}

func TestRunVaultList(t *testing.T) {
	ctx := context.Background()
	entries := []vaultDomain.Credential{mailEntry, bankEntry}

	t.Run("masked-text-output", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, entries)

		var out bytes.Buffer
		err := RunVaultList(ctx, f.session, f.logger, f.imagePath, passwords(t, masterPassword), &out, "text", false)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "SERVICE")
		assert.Contains(t, out.String(), "bank")
		assert.Contains(t, out.String(), passwordMask)
		assert.NotContains(t, out.String(), mailEntry.Password)
		assert.False(t, f.session.Unlocked())
	})

	t.Run("show-passwords", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, entries)

		var out bytes.Buffer
		err := RunVaultList(ctx, f.session, f.logger, f.imagePath, passwords(t, masterPassword), &out, "text", true)
		require.NoError(t, err)
		assert.Contains(t, out.String(), mailEntry.Password)
		assert.Contains(t, out.String(), bankEntry.Password)
	})

	t.Run("json-output-omits-passwords", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, entries)

		var out bytes.Buffer
		err := RunVaultList(ctx, f.session, f.logger, f.imagePath, passwords(t, masterPassword), &out, "json", false)
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"service": "mail"`)
		assert.Contains(t, out.String(), `"index": 2`)
		assert.NotContains(t, out.String(), `"password"`)
	})

	t.Run("empty-vault", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{})

		var out bytes.Buffer
		err := RunVaultList(ctx, f.session, f.logger, f.imagePath, passwords(t, masterPassword), &out, "text", false)
		require.NoError(t, err)
		assert.Equal(t, "Vault is empty\n", out.String())
	})

	t.Run("incorrect-password", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(true, nil).Once()
		f.api.On("Unlock", mock.Anything, f.imageHash, "wrong-password").
			Return(nil, apperrors.ErrUnauthorized).Once()

		err := RunVaultList(
			ctx, f.session, f.logger, f.imagePath, passwords(t, "wrong-password"), &bytes.Buffer{}, "text", false,
		)
		assert.ErrorIs(t, err, client.ErrIncorrectPassword)
	})

	t.Run("no-vault", func(t *testing.T) {
		f := newVaultFixture(t)
		f.api.On("Exists", mock.Anything, f.imageHash).Return(false, nil).Once()

		err := RunVaultList(ctx, f.session, f.logger, f.imagePath, passwords(t), &bytes.Buffer{}, "text", false)
		assert.ErrorIs(t, err, vaultDomain.ErrVaultNotFound)
	})
}

func TestRunVaultAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("from-flags", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{mailEntry})
		f.expectUpdate([]vaultDomain.Credential{mailEntry, bankEntry})

		var out bytes.Buffer
		err := RunVaultAdd(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword, bankEntry.Password),
			IOTuple{Reader: strings.NewReader(""), Writer: &out},
			bankEntry.Service, bankEntry.Username, "text",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Added entry 2: bank (alice)")
		assert.False(t, f.session.Unlocked())
	})

	t.Run("prompted-fields", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{})
		f.expectUpdate([]vaultDomain.Credential{bankEntry})

		var out bytes.Buffer
		err := RunVaultAdd(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword, bankEntry.Password),
			IOTuple{Reader: strings.NewReader("bank\nalice\n"), Writer: &out},
			"", "", "json",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Service: ")
		assert.Contains(t, out.String(), `"username": "alice"`)
	})

	t.Run("empty-entry-password", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{})

		err := RunVaultAdd(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword, ""),
			IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			"bank", "alice", "text",
		)
		assert.ErrorIs(t, err, client.ErrInvalidEntry)
		f.api.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save-rejected", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{})
		f.api.On("Update", mock.Anything, f.imageHash, masterPassword, mock.Anything).
			Return(apperrors.ErrUnauthorized).Once()

		err := RunVaultAdd(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword, bankEntry.Password),
			IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			"bank", "alice", "text",
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to add entry")
	})
}

func TestRunVaultEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("empty-answers-keep-values", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{mailEntry, bankEntry})
		renamed := vaultDomain.Credential{Service: "bank", Username: "bob", Password: bankEntry.Password}
		f.expectUpdate([]vaultDomain.Credential{mailEntry, renamed})

		var out bytes.Buffer
		err := RunVaultEdit(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword),
			IOTuple{Reader: strings.NewReader("\nbob\n"), Writer: &out},
			2, "", "", false, "text",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Service [bank]: ")
		assert.Contains(t, out.String(), "Updated entry 2: bank (bob)")
	})

	t.Run("change-password", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{mailEntry})
		changed := vaultDomain.Credential{Service: "mail", Username: "u", Password: "n3w-pass"}
		f.expectUpdate([]vaultDomain.Credential{changed})

		err := RunVaultEdit(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword, "n3w-pass"),
			IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			1, "mail", "u", true, "text",
		)
		require.NoError(t, err)
	})

	t.Run("index-out-of-range", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{mailEntry})

		err := RunVaultEdit(
			ctx, f.session, f.logger, f.imagePath,
			passwords(t, masterPassword),
			IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			3, "x", "y", false, "text",
		)
		assert.ErrorIs(t, err, client.ErrEntryNotFound)
	})

	t.Run("invalid-index", func(t *testing.T) {
		f := newVaultFixture(t)

		err := RunVaultEdit(
			ctx, f.session, f.logger, f.imagePath, passwords(t),
			IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}},
			0, "", "", false, "text",
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index must be a positive number")
	})
}

func TestRunVaultDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{mailEntry, bankEntry})
		f.expectUpdate([]vaultDomain.Credential{bankEntry})

		var out bytes.Buffer
		err := RunVaultDelete(ctx, f.session, f.logger, f.imagePath, passwords(t, masterPassword), &out, 1, "json")
		require.NoError(t, err)
		assert.Contains(t, out.String(), `"deleted": 1`)
		assert.Contains(t, out.String(), `"remaining": 1`)
		assert.False(t, f.session.Unlocked())
	})

	t.Run("index-out-of-range", func(t *testing.T) {
		f := newVaultFixture(t)
		f.stored(t, []vaultDomain.Credential{mailEntry})

		err := RunVaultDelete(
			ctx, f.session, f.logger, f.imagePath, passwords(t, masterPassword), &bytes.Buffer{}, 2, "text",
		)
		assert.ErrorIs(t, err, client.ErrEntryNotFound)
	})

	t.Run("invalid-index", func(t *testing.T) {
		f := newVaultFixture(t)

		err := RunVaultDelete(ctx, f.session, f.logger, f.imagePath, passwords(t), &bytes.Buffer{}, -1, "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index must be a positive number")
	})
}
