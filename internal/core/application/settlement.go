package application

import (
	"context"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/internal/core/ports"
	"github.com/escrowless/marketd/pkg/errors"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (s *service) BuyNow(
	ctx context.Context, buyer, seller, assetID string,
	buyerFunds uint64, buyerHolding string,
) (*Receipt, errors.Error) {
	config, cfgErr := s.marketConfig(ctx)
	if cfgErr != nil {
		return nil, cfgErr
	}

	listingKey := domain.ListingKey(seller, assetID)
	vaultKey := domain.VaultKey(seller, assetID)

	// The listing lock serializes concurrent buyers, the re-read below makes
	// the loser observe the record already gone.
	s.cache.Lock(listingKey)
	defer s.cache.Unlock(listingKey)
	s.cache.Lock(vaultKey)
	defer s.cache.Unlock(vaultKey)

	listing, err := s.repoManager.Listings().Get(ctx, listingKey)
	if err != nil {
		if err == domain.ErrKeyNotFound {
			return nil, errors.NOT_FOUND.New("no listing at key %s", listingKey).
				WithMetadata(errors.KeyMetadata{Key: listingKey.String()})
		}
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	nowTs := now()
	if !listing.IsPurchasable(nowTs) {
		md := errors.PurchasableMetadata{Key: listingKey.String(), Now: nowTs}
		if listing.ValidFrom != nil {
			md.ValidFrom = *listing.ValidFrom
		}
		if listing.ValidUntil != nil {
			md.ValidUntil = *listing.ValidUntil
		}
		return nil, errors.LISTING_NOT_PURCHASABLE.New(
			"listing %s is outside its validity window", listingKey,
		).WithMetadata(md)
	}

	// a live listing always has its vault behind it, both locks are held
	vault, err := s.repoManager.Vaults().Get(ctx, vaultKey)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	price := listing.PriceAt(nowTs)
	fee := domain.BpsShare(price, config.FeeRateBps)
	royalty := domain.BpsShare(price, domain.RoyaltyRateBps)
	proceeds := price - fee - royalty

	if buyerFunds < price {
		return nil, errors.INSUFFICIENT_FUNDS.New(
			"committed funds %d below current price %d", buyerFunds, price,
		).WithMetadata(errors.FundsMetadata{Required: price, Available: buyerFunds})
	}
	balance, err := s.funds.Balance(ctx, buyer)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	if balance < price {
		return nil, errors.INSUFFICIENT_FUNDS.New(
			"buyer balance %d below current price %d", balance, price,
		).WithMetadata(errors.FundsMetadata{Required: price, Available: balance})
	}

	transfers := make([]ports.Transfer, 0, 2)
	if fee > 0 {
		transfers = append(transfers, ports.Transfer{
			From: buyer, To: config.FeeRecipient, Amount: fee,
		})
	}
	if royalty+proceeds > 0 {
		transfers = append(transfers, ports.Transfer{
			From: buyer, To: seller, Amount: royalty + proceeds,
		})
	}
	if err := s.funds.TransferBatch(ctx, transfers); err != nil {
		return nil, errors.INSUFFICIENT_FUNDS.Wrap(err).
			WithMetadata(errors.FundsMetadata{Required: price, Available: balance})
	}

	// each step past the funds batch compensates everything before it on
	// failure, a partial settlement must never be observable
	if err := s.assets.Transfer(ctx, assetID, vaultKey.String(), buyerHolding); err != nil {
		s.refund(ctx, transfers)
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	// The vault record goes with its asset, settlement empties the custody.
	if err := s.repoManager.Vaults().Delete(ctx, vaultKey); err != nil {
		s.returnAsset(ctx, assetID, buyerHolding, vaultKey.String())
		s.refund(ctx, transfers)
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	if err := s.repoManager.Listings().Delete(ctx, listingKey); err != nil {
		if rbErr := s.repoManager.Vaults().Add(ctx, *vault); rbErr != nil {
			log.WithError(rbErr).Errorf("failed to restore vault %s", vaultKey)
		}
		s.returnAsset(ctx, assetID, buyerHolding, vaultKey.String())
		s.refund(ctx, transfers)
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}

	receipt := &Receipt{
		ID:       uuid.NewString(),
		Price:    price,
		Fee:      fee,
		Royalty:  royalty,
		Proceeds: proceeds,
	}
	log.Infof(
		"settled listing %s: asset %s sold to %s for %d (fee %d, royalty %d)",
		listingKey, assetID, buyer, price, fee, royalty,
	)
	return receipt, nil
}

// refund reverses a committed settlement batch.
func (s *service) refund(ctx context.Context, transfers []ports.Transfer) {
	reversed := make([]ports.Transfer, 0, len(transfers))
	for _, transfer := range transfers {
		reversed = append(reversed, ports.Transfer{
			From: transfer.To, To: transfer.From, Amount: transfer.Amount,
		})
	}
	if err := s.funds.TransferBatch(ctx, reversed); err != nil {
		log.WithError(err).Error("failed to reverse settlement transfers")
	}
}

func (s *service) returnAsset(ctx context.Context, assetID, from, to string) {
	if err := s.assets.Transfer(ctx, assetID, from, to); err != nil {
		log.WithError(err).Errorf("failed to return asset %s to custody", assetID)
	}
}
