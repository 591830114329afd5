package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/imageguard/internal/database"
	apperrors "github.com/allisson/imageguard/internal/errors"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// MySQLVaultRepository implements Vault persistence for MySQL databases.
// IDs are stored as BINARY(16).
type MySQLVaultRepository struct {
	db *sql.DB
}

// Create inserts a new vault. A duplicate image hash returns ErrVaultAlreadyExists.
func (m *MySQLVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO vaults (id, image_hash, master_password_verifier, encrypted_data, salt, iv, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := vault.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal vault id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		vault.ImageHash,
		vault.MasterPasswordVerifier,
		vault.EncryptedData,
		vault.Salt,
		vault.IV,
		vault.CreatedAt,
		vault.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return vaultDomain.ErrVaultAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create vault")
	}
	return nil
}

// GetByImageHash retrieves a vault by the fingerprint of its image.
func (m *MySQLVaultRepository) GetByImageHash(
	ctx context.Context,
	imageHash string,
) (*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, image_hash, master_password_verifier, encrypted_data, salt, iv, created_at, updated_at
			  FROM vaults
			  WHERE image_hash = ?`

	var vault vaultDomain.Vault
	var id []byte

	err := querier.QueryRowContext(ctx, query, imageHash).Scan(
		&id,
		&vault.ImageHash,
		&vault.MasterPasswordVerifier,
		&vault.EncryptedData,
		&vault.Salt,
		&vault.IV,
		&vault.CreatedAt,
		&vault.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrVaultNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault by image hash")
	}

	if err := vault.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal vault id")
	}

	return &vault, nil
}

// Update replaces the encrypted package of the vault with the same image hash.
// updated_at always changes, so a matched row is always reported as affected.
func (m *MySQLVaultRepository) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE vaults
			  SET encrypted_data = ?, salt = ?, iv = ?, updated_at = ?
			  WHERE image_hash = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		vault.EncryptedData,
		vault.Salt,
		vault.IV,
		vault.UpdatedAt,
		vault.ImageHash,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return vaultDomain.ErrVaultNotFound
	}
	return nil
}

// NewMySQLVaultRepository creates a new MySQL vault repository.
func NewMySQLVaultRepository(db *sql.DB) *MySQLVaultRepository {
	return &MySQLVaultRepository{db: db}
}
