package domain

import "context"

type VaultRepository interface {
	// Add persists a vault, failing with ErrDuplicateKey if a record
	// already exists at its derived key.
	Add(ctx context.Context, vault Vault) error
	// Get returns the vault at key, or ErrKeyNotFound.
	Get(ctx context.Context, key Key) (*Vault, error)
	// Delete removes the vault at key, failing with ErrKeyNotFound if
	// absent. Exactly one concurrent caller observes success.
	Delete(ctx context.Context, key Key) error
	Close()
}
