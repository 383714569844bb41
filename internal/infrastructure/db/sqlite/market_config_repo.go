package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/escrowless/marketd/internal/core/domain"
)

type marketConfigRepository struct {
	db *sql.DB
}

func NewMarketConfigRepository(config ...interface{}) (domain.MarketConfigRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open market config repository: invalid config, expected db at 0",
		)
	}

	return &marketConfigRepository{db}, nil
}

func (r *marketConfigRepository) Get(ctx context.Context) (*domain.MarketConfig, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT authority, fee_rate_bps, fee_recipient, created_at
		 FROM market_config WHERE id = 0`,
	)

	var config domain.MarketConfig
	var createdAt int64
	var feeRateBps int64
	if err := row.Scan(
		&config.Authority, &feeRateBps, &config.FeeRecipient, &createdAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get market config: %w", err)
	}
	config.FeeRateBps = uint64(feeRateBps)
	config.CreatedAt = unixToTime(createdAt)
	return &config, nil
}

func (r *marketConfigRepository) Add(ctx context.Context, config domain.MarketConfig) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO market_config (id, authority, fee_rate_bps, fee_recipient, created_at)
		 VALUES (0, ?, ?, ?, ?)`,
		config.Authority, int64(config.FeeRateBps), config.FeeRecipient,
		config.CreatedAt.Unix(),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert market config: %w", err)
	}
	return nil
}

func (r *marketConfigRepository) Close() {
	// nolint:all
	r.db.Close()
}
