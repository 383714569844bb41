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

const (
	marketConfigStoreDir = "market-config"
	marketConfigKey      = "config"
)

type marketConfigRepository struct {
	store *badgerhold.Store
}

func NewMarketConfigRepository(config ...interface{}) (domain.MarketConfigRepository, error) {
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
		dir = filepath.Join(baseDir, marketConfigStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open market config store: %s", err)
	}

	return &marketConfigRepository{store}, nil
}

func (r *marketConfigRepository) Get(_ context.Context) (*domain.MarketConfig, error) {
	var config domain.MarketConfig
	if err := r.store.Get(marketConfigKey, &config); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

func (r *marketConfigRepository) Add(_ context.Context, config domain.MarketConfig) error {
	insertFn := func() error {
		return r.store.Insert(marketConfigKey, config)
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

func (r *marketConfigRepository) Close() {
	// nolint:all
	r.store.Close()
}
