package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const vaultStoreDir = "vaults"

type vaultRepository struct {
	store *badgerhold.Store
}

func NewVaultRepository(config ...interface{}) (domain.VaultRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, vaultStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault store: %s", err)
	}

	return &vaultRepository{store}, nil
}

func (r *vaultRepository) Add(_ context.Context, vault domain.Vault) error {
	insertFn := func() error {
		return r.store.Insert(vault.Key().String(), vault)
	}
	if err := insertFn(); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrDuplicateKey
		}
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = insertFn()
				attempts++
			}
			if errors.Is(err, badgerhold.ErrKeyExists) {
				return domain.ErrDuplicateKey
			}
		}
		return err
	}
	return nil
}

func (r *vaultRepository) Get(_ context.Context, key domain.Key) (*domain.Vault, error) {
	var vault domain.Vault
	if err := r.store.Get(key.String(), &vault); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return &vault, nil
}

func (r *vaultRepository) Delete(_ context.Context, key domain.Key) error {
	deleteFn := func() error {
		return r.store.Delete(key.String(), &domain.Vault{})
	}
	if err := deleteFn(); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrKeyNotFound
		}
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = deleteFn()
				attempts++
			}
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrKeyNotFound
			}
		}
		return err
	}
	return nil
}

func (r *vaultRepository) Close() {
	// nolint:all
	r.store.Close()
}
