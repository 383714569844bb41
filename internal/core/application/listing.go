package application

import (
	"context"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (s *service) CreateListing(
	ctx context.Context, seller, assetID string,
	priceConfig domain.PriceConfig, validFrom, validUntil *int64,
) (*domain.Listing, errors.Error) {
	listing := domain.NewListing(seller, assetID, priceConfig, validFrom, validUntil)
	listingKey := listing.Key()

	if err := priceConfig.Validate(); err != nil {
		return nil, errors.INVALID_PRICE_CONFIG.Wrap(err).
			WithMetadata(errors.PriceConfigMetadata{
				PriceType:  priceConfig.PriceType.String(),
				StartPrice: priceConfig.StartPrice,
				MinPrice:   priceConfig.MinPrice,
				Duration:   priceConfig.Duration,
			})
	}
	if err := listing.ValidateWindow(); err != nil {
		return nil, errors.INVALID_WINDOW.Wrap(err).
			WithMetadata(errors.WindowMetadata{
				ValidFrom: *validFrom, ValidUntil: *validUntil,
			})
	}

	// listing-then-vault lock order, same as settlement and withdrawal, so
	// the vault cannot be withdrawn between the check and the insert
	s.cache.Lock(listingKey)
	defer s.cache.Unlock(listingKey)
	s.cache.Lock(listing.VaultKey)
	defer s.cache.Unlock(listing.VaultKey)

	vault, err := s.repoManager.Vaults().Get(ctx, listing.VaultKey)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return nil, errors.NOT_FOUND.New("no vault for asset %s, fund it first", assetID).
				WithMetadata(errors.KeyMetadata{Key: listing.VaultKey.String()})
		}
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	if !vault.IsOwnedBy(seller) {
		return nil, errors.UNAUTHORIZED.New(
			"vault %s is not owned by %s", listing.VaultKey, seller,
		).WithMetadata(errors.OwnerMetadata{Owner: seller, AssetID: assetID})
	}

	if err := s.repoManager.Listings().Add(ctx, *listing); err != nil {
		if err == domain.ErrDuplicateKey {
			return nil, errors.ALREADY_EXISTS.New("asset %s is already listed", assetID).
				WithMetadata(errors.KeyMetadata{Key: listingKey.String()})
		}
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Debugf(
		"created %s listing %s for asset %s",
		priceConfig.PriceType, listingKey, assetID,
	)
	return listing, nil
}

func (s *service) CancelListing(ctx context.Context, seller, assetID string) errors.Error {
	listingKey := domain.ListingKey(seller, assetID)

	s.cache.Lock(listingKey)
	defer s.cache.Unlock(listingKey)

	listing, err := s.repoManager.Listings().Get(ctx, listingKey)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return errors.NOT_FOUND.New("no listing at key %s", listingKey).
				WithMetadata(errors.KeyMetadata{Key: listingKey.String()})
		}
		return errors.INTERNAL_ERROR.Wrap(err)
	}
	if !listing.IsOwnedBy(seller) {
		return errors.UNAUTHORIZED.New("listing %s is not owned by %s", listingKey, seller).
			WithMetadata(errors.OwnerMetadata{Owner: seller, AssetID: assetID})
	}

	if err := s.repoManager.Listings().Delete(ctx, listingKey); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Debugf("cancelled listing %s for asset %s", listingKey, assetID)
	return nil
}
