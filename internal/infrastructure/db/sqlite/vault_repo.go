package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/escrowless/marketd/internal/core/domain"
)

type vaultRepository struct {
	db *sql.DB
}

func NewVaultRepository(config ...interface{}) (domain.VaultRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open vault repository: invalid config, expected db at 0",
		)
	}

	return &vaultRepository{db}, nil
}

func (r *vaultRepository) Add(ctx context.Context, vault domain.Vault) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO vault (key, owner, asset_id, created_at) VALUES (?, ?, ?, ?)`,
		vault.Key().String(), vault.Owner, vault.AssetID, vault.CreatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert vault: %w", err)
	}
	return nil
}

func (r *vaultRepository) Get(ctx context.Context, key domain.Key) (*domain.Vault, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT owner, asset_id, created_at FROM vault WHERE key = ?`,
		key.String(),
	)

	var vault domain.Vault
	if err := row.Scan(&vault.Owner, &vault.AssetID, &vault.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get vault: %w", err)
	}
	return &vault, nil
}

func (r *vaultRepository) Delete(ctx context.Context, key domain.Key) error {
	result, err := r.db.ExecContext(
		ctx, `DELETE FROM vault WHERE key = ?`, key.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete vault: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count <= 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

func (r *vaultRepository) Close() {
	// nolint:all
	r.db.Close()
}
