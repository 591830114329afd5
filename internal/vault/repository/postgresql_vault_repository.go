// Package repository implements vault persistence for PostgreSQL and MySQL.
// Every query runs through database.GetTx so it joins an ambient transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/allisson/imageguard/internal/database"
	apperrors "github.com/allisson/imageguard/internal/errors"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// PostgreSQLVaultRepository implements Vault persistence for PostgreSQL databases.
type PostgreSQLVaultRepository struct {
	db *sql.DB
}

// Create inserts a new vault. A duplicate image hash returns ErrVaultAlreadyExists.
func (p *PostgreSQLVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vaults (id, image_hash, master_password_verifier, encrypted_data, salt, iv, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		vault.ID,
		vault.ImageHash,
		vault.MasterPasswordVerifier,
		vault.EncryptedData,
		vault.Salt,
		vault.IV,
		vault.CreatedAt,
		vault.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return vaultDomain.ErrVaultAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create vault")
	}
	return nil
}

// GetByImageHash retrieves a vault by the fingerprint of its image.
func (p *PostgreSQLVaultRepository) GetByImageHash(
	ctx context.Context,
	imageHash string,
) (*vaultDomain.Vault, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, image_hash, master_password_verifier, encrypted_data, salt, iv, created_at, updated_at
			  FROM vaults
			  WHERE image_hash = $1`

	var vault vaultDomain.Vault
	err := querier.QueryRowContext(ctx, query, imageHash).Scan(
		&vault.ID,
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

	return &vault, nil
}

// Update replaces the encrypted package of the vault with the same image hash.
func (p *PostgreSQLVaultRepository) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vaults
			  SET encrypted_data = $1, salt = $2, iv = $3, updated_at = $4
			  WHERE image_hash = $5`

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

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// NewPostgreSQLVaultRepository creates a new PostgreSQL vault repository.
func NewPostgreSQLVaultRepository(db *sql.DB) *PostgreSQLVaultRepository {
	return &PostgreSQLVaultRepository{db: db}
}
