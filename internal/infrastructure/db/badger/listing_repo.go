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

const listingStoreDir = "listings"

type listingRepository struct {
	store *badgerhold.Store
}

// listingDTO flattens the optional window bounds so they stay queryable.
type listingDTO struct {
	domain.Listing
	HasUntil bool
	Until    int64
}

func newListingDTO(listing domain.Listing) listingDTO {
	dto := listingDTO{Listing: listing}
	if listing.ValidUntil != nil {
		dto.HasUntil = true
		dto.Until = *listing.ValidUntil
	}
	return dto
}

func NewListingRepository(config ...interface{}) (domain.ListingRepository, error) {
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
		dir = filepath.Join(baseDir, listingStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing store: %s", err)
	}

	return &listingRepository{store}, nil
}

func (r *listingRepository) Add(_ context.Context, listing domain.Listing) error {
	insertFn := func() error {
		return r.store.Insert(listing.Key().String(), newListingDTO(listing))
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

func (r *listingRepository) Get(_ context.Context, key domain.Key) (*domain.Listing, error) {
	var dto listingDTO
	if err := r.store.Get(key.String(), &dto); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return &dto.Listing, nil
}

func (r *listingRepository) Delete(_ context.Context, key domain.Key) error {
	deleteFn := func() error {
		return r.store.Delete(key.String(), &listingDTO{})
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

func (r *listingRepository) GetExpired(
	_ context.Context, before int64,
) ([]domain.Listing, error) {
	query := badgerhold.Where("HasUntil").Eq(true).And("Until").Lt(before)
	var dtos []listingDTO
	if err := r.store.Find(&dtos, query); err != nil && err != badgerhold.ErrNotFound {
		return nil, err
	}
	listings := make([]domain.Listing, 0, len(dtos))
	for _, dto := range dtos {
		listings = append(listings, dto.Listing)
	}
	return listings, nil
}

func (r *listingRepository) Close() {
	// nolint:all
	r.store.Close()
}
