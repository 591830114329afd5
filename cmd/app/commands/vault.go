package commands

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/allisson/imageguard/internal/client"
	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

const passwordMask = "********"

// ErrPasswordMismatch is returned when the master password confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// VaultSession is the client session the vault commands drive. client.Session
// implements it.
type VaultSession interface {
	Identify(ctx context.Context, r io.Reader) (bool, error)
	ImageHash() string
	Create(ctx context.Context, password []byte) error
	Unlock(ctx context.Context, password []byte) error
	Entries() ([]vaultDomain.Credential, error)
	Add(ctx context.Context, cred vaultDomain.Credential) error
	Replace(ctx context.Context, index int, cred vaultDomain.Credential) error
	Delete(ctx context.Context, index int) error
	Lock()
}

type entryOutput struct {
	Index    int    `json:"index"`
	Service  string `json:"service"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
}

// RunVaultStatus reports whether a vault exists for the image at imagePath.
func RunVaultStatus(
	ctx context.Context,
	session VaultSession,
	logger *slog.Logger,
	imagePath string,
	writer io.Writer,
	format string,
) error {
	defer session.Lock()

	exists, err := identify(ctx, session, imagePath)
	if err != nil {
		return err
	}
	imageHash := session.ImageHash()
	logger.Info("image identified", slog.String("image_hash", imageHash), slog.Bool("exists", exists))

	if format == "json" {
		return outputJSON(map[string]any{"image_hash": imageHash, "exists": exists}, writer)
	}
	if exists {
		_, _ = fmt.Fprintf(writer, "Vault found for image %s\n", imageHash)
	} else {
		_, _ = fmt.Fprintf(writer, "No vault for image %s\n", imageHash)
	}
	return nil
}

// RunVaultCreate creates an empty vault for the image at imagePath. The master
// password is read twice and must match.
func RunVaultCreate(
	ctx context.Context,
	session VaultSession,
	logger *slog.Logger,
	imagePath string,
	readPassword PasswordReader,
	writer io.Writer,
	format string,
) error {
	defer session.Lock()

	exists, err := identify(ctx, session, imagePath)
	if err != nil {
		return err
	}
	if exists {
		return vaultDomain.ErrVaultAlreadyExists
	}

	password, err := readPassword("New master password: ")
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(password)

	confirm, err := readPassword("Confirm master password: ")
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(confirm)

	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}

	if err := session.Create(ctx, password); err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}

	imageHash := session.ImageHash()
	logger.Info("vault created", slog.String("image_hash", imageHash))

	if format == "json" {
		return outputJSON(map[string]any{"image_hash": imageHash, "created": true}, writer)
	}
	_, _ = fmt.Fprintf(writer, "Vault created for image %s\n", imageHash)
	return nil
}

// RunVaultList unlocks the vault and prints its entries. Entry passwords are
// masked unless showPasswords is set.
func RunVaultList(
	ctx context.Context,
	session VaultSession,
	logger *slog.Logger,
	imagePath string,
	readPassword PasswordReader,
	writer io.Writer,
	format string,
	showPasswords bool,
) error {
	defer session.Lock()

	if err := unlockVault(ctx, session, logger, imagePath, readPassword); err != nil {
		return err
	}
	entries, err := session.Entries()
	if err != nil {
		return err
	}

	out := make([]entryOutput, 0, len(entries))
	for i, e := range entries {
		item := entryOutput{Index: i + 1, Service: e.Service, Username: e.Username}
		if showPasswords {
			item.Password = e.Password
		} else if format != "json" {
			item.Password = passwordMask
		}
		out = append(out, item)
	}

	if format == "json" {
		return outputJSON(map[string]any{"image_hash": session.ImageHash(), "entries": out}, writer)
	}

	if len(out) == 0 {
		_, _ = fmt.Fprintln(writer, "Vault is empty")
		return nil
	}
	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tSERVICE\tUSERNAME\tPASSWORD")
	for _, item := range out {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.Index, item.Service, item.Username, item.Password)
	}
	return tw.Flush()
}

// RunVaultAdd unlocks the vault and appends one entry. Service and username are
// prompted for when empty; the entry password is always read without echo.
func RunVaultAdd(
	ctx context.Context,
	session VaultSession,
	logger *slog.Logger,
	imagePath string,
	readPassword PasswordReader,
	streams IOTuple,
	service, username string,
	format string,
) error {
	defer session.Lock()

	if err := unlockVault(ctx, session, logger, imagePath, readPassword); err != nil {
		return err
	}

	reader := bufio.NewReader(streams.Reader)
	var err error
	if service == "" {
		if service, err = readLine(reader, streams.Writer, "Service: "); err != nil {
			return err
		}
	}
	if username == "" {
		if username, err = readLine(reader, streams.Writer, "Username: "); err != nil {
			return err
		}
	}
	entryPassword, err := readPassword("Entry password: ")
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(entryPassword)

	cred := vaultDomain.Credential{Service: service, Username: username, Password: string(entryPassword)}
	if err := session.Add(ctx, cred); err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}

	entries, err := session.Entries()
	if err != nil {
		return err
	}
	logger.Info("entry added", slog.String("image_hash", session.ImageHash()), slog.Int("entries", len(entries)))

	return outputEntryChange(streams.Writer, format, "Added", len(entries), cred)
}

// RunVaultEdit unlocks the vault and replaces the entry at the 1-based index.
// Empty service or username flags are prompted for, and an empty answer keeps
// the current value. The entry password only changes when changePassword is set.
func RunVaultEdit(
	ctx context.Context,
	session VaultSession,
	logger *slog.Logger,
	imagePath string,
	readPassword PasswordReader,
	streams IOTuple,
	index int,
	service, username string,
	changePassword bool,
	format string,
) error {
	defer session.Lock()

	if index < 1 {
		return fmt.Errorf("index must be a positive number, got: %d", index)
	}
	if err := unlockVault(ctx, session, logger, imagePath, readPassword); err != nil {
		return err
	}
	entries, err := session.Entries()
	if err != nil {
		return err
	}
	if index > len(entries) {
		return fmt.Errorf("entry %d: %w", index, client.ErrEntryNotFound)
	}
	cred := entries[index-1]

	reader := bufio.NewReader(streams.Reader)
	if service == "" {
		if service, err = readLineDefault(reader, streams.Writer, "Service", cred.Service); err != nil {
			return err
		}
	}
	if username == "" {
		if username, err = readLineDefault(reader, streams.Writer, "Username", cred.Username); err != nil {
			return err
		}
	}
	cred.Service = service
	cred.Username = username

	if changePassword {
		entryPassword, err := readPassword("New entry password: ")
		if err != nil {
			return err
		}
		defer cryptoDomain.Zero(entryPassword)
		cred.Password = string(entryPassword)
	}

	if err := session.Replace(ctx, index-1, cred); err != nil {
		return fmt.Errorf("failed to edit entry: %w", err)
	}
	logger.Info("entry replaced", slog.String("image_hash", session.ImageHash()), slog.Int("index", index))

	return outputEntryChange(streams.Writer, format, "Updated", index, cred)
}

// RunVaultDelete unlocks the vault and removes the entry at the 1-based index.
func RunVaultDelete(
	ctx context.Context,
	session VaultSession,
	logger *slog.Logger,
	imagePath string,
	readPassword PasswordReader,
	writer io.Writer,
	index int,
	format string,
) error {
	defer session.Lock()

	if index < 1 {
		return fmt.Errorf("index must be a positive number, got: %d", index)
	}
	if err := unlockVault(ctx, session, logger, imagePath, readPassword); err != nil {
		return err
	}
	if err := session.Delete(ctx, index-1); err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", index, err)
	}

	entries, err := session.Entries()
	if err != nil {
		return err
	}
	logger.Info("entry deleted", slog.String("image_hash", session.ImageHash()), slog.Int("index", index))

	if format == "json" {
		return outputJSON(map[string]any{"deleted": index, "remaining": len(entries)}, writer)
	}
	_, _ = fmt.Fprintf(writer, "Deleted entry %d, %d remaining\n", index, len(entries))
	return nil
}

func identify(ctx context.Context, session VaultSession, imagePath string) (bool, error) {
	if imagePath == "" {
		return false, fmt.Errorf("image path is required")
	}
	f, err := os.Open(imagePath)
	if err != nil {
		return false, fmt.Errorf("failed to read image: %w", err)
	}
	defer func() { _ = f.Close() }()

	return session.Identify(ctx, f)
}

// unlockVault identifies the image and unlocks its vault with a master
// password read from readPassword.
func unlockVault(
	ctx context.Context,
	session VaultSession,
	logger *slog.Logger,
	imagePath string,
	readPassword PasswordReader,
) error {
	exists, err := identify(ctx, session, imagePath)
	if err != nil {
		return err
	}
	if !exists {
		return vaultDomain.ErrVaultNotFound
	}

	password, err := readPassword("Master password: ")
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(password)

	if err := session.Unlock(ctx, password); err != nil {
		logger.Warn("vault unlock failed", slog.String("image_hash", session.ImageHash()))
		return err
	}
	logger.Info("vault unlocked", slog.String("image_hash", session.ImageHash()))
	return nil
}

func readLineDefault(reader *bufio.Reader, w io.Writer, label, current string) (string, error) {
	line, err := readLine(reader, w, fmt.Sprintf("%s [%s]: ", label, current))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return current, nil
		}
		return "", err
	}
	if strings.TrimSpace(line) == "" {
		return current, nil
	}
	return line, nil
}

func outputEntryChange(writer io.Writer, format, verb string, index int, cred vaultDomain.Credential) error {
	if format == "json" {
		return outputJSON(entryOutput{Index: index, Service: cred.Service, Username: cred.Username}, writer)
	}
	_, _ = fmt.Fprintf(writer, "%s entry %d: %s (%s)\n", verb, index, cred.Service, cred.Username)
	return nil
}
