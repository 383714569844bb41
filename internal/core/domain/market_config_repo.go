package domain

import "context"

type MarketConfigRepository interface {
	// Get returns nil without error when the singleton has not been created.
	Get(ctx context.Context) (*MarketConfig, error)
	// Add persists the singleton, failing with ErrDuplicateKey if present.
	Add(ctx context.Context, config MarketConfig) error
	Close()
}
