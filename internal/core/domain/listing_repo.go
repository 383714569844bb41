package domain

import "context"

type ListingRepository interface {
	// Add persists a listing, failing with ErrDuplicateKey if a record
	// already exists at its derived key.
	Add(ctx context.Context, listing Listing) error
	// Get returns the listing at key, or ErrKeyNotFound.
	Get(ctx context.Context, key Key) (*Listing, error)
	// Delete removes the listing at key, failing with ErrKeyNotFound if
	// absent. The record's presence is the lock on the sale: exactly one
	// concurrent caller observes success.
	Delete(ctx context.Context, key Key) error
	// GetExpired returns all listings whose validity window closed before
	// the given unix time.
	GetExpired(ctx context.Context, before int64) ([]Listing, error)
	Close()
}
