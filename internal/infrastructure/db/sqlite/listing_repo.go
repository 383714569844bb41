package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/escrowless/marketd/internal/core/domain"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(config ...interface{}) (domain.ListingRepository, error) {
	if len(config) != 1 {
		return nil, fmt.Errorf("invalid config")
	}
	db, ok := config[0].(*sql.DB)
	if !ok {
		return nil, fmt.Errorf(
			"cannot open listing repository: invalid config, expected db at 0",
		)
	}

	return &listingRepository{db}, nil
}

func (r *listingRepository) Add(ctx context.Context, listing domain.Listing) error {
	var validFrom, validUntil sql.NullInt64
	if listing.ValidFrom != nil {
		validFrom = sql.NullInt64{Int64: *listing.ValidFrom, Valid: true}
	}
	if listing.ValidUntil != nil {
		validUntil = sql.NullInt64{Int64: *listing.ValidUntil, Valid: true}
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO listing (
			key, seller, asset_id, vault_key, price_type, start_price, min_price,
			duration, valid_from, valid_until, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.Key().String(), listing.Seller, listing.AssetID,
		listing.VaultKey.String(), int64(listing.PriceConfig.PriceType),
		int64(listing.PriceConfig.StartPrice), int64(listing.PriceConfig.MinPrice),
		listing.PriceConfig.Duration, validFrom, validUntil, listing.CreatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *listingRepository) Get(ctx context.Context, key domain.Key) (*domain.Listing, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT seller, asset_id, vault_key, price_type, start_price, min_price,
			duration, valid_from, valid_until, created_at
		 FROM listing WHERE key = ?`,
		key.String(),
	)

	listing, err := scanListing(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

func (r *listingRepository) Delete(ctx context.Context, key domain.Key) error {
	result, err := r.db.ExecContext(
		ctx, `DELETE FROM listing WHERE key = ?`, key.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
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

func (r *listingRepository) GetExpired(
	ctx context.Context, before int64,
) ([]domain.Listing, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT seller, asset_id, vault_key, price_type, start_price, min_price,
			duration, valid_from, valid_until, created_at
		 FROM listing WHERE valid_until IS NOT NULL AND valid_until < ?`,
		before,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired listings: %w", err)
	}
	// nolint:all
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

func (r *listingRepository) Close() {
	// nolint:all
	r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var listing domain.Listing
	var vaultKey string
	var priceType, startPrice, minPrice int64
	var validFrom, validUntil sql.NullInt64
	if err := row.Scan(
		&listing.Seller, &listing.AssetID, &vaultKey, &priceType, &startPrice,
		&minPrice, &listing.PriceConfig.Duration, &validFrom, &validUntil,
		&listing.CreatedAt,
	); err != nil {
		return nil, err
	}
	listing.VaultKey = domain.Key(vaultKey)
	listing.PriceConfig.PriceType = domain.PriceType(priceType)
	listing.PriceConfig.StartPrice = uint64(startPrice)
	listing.PriceConfig.MinPrice = uint64(minPrice)
	if validFrom.Valid {
		listing.ValidFrom = &validFrom.Int64
	}
	if validUntil.Valid {
		listing.ValidUntil = &validUntil.Int64
	}
	return &listing, nil
}
