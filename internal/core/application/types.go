package application

import (
	"context"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/pkg/errors"
)

type Service interface {
	Start() errors.Error
	Stop()
	InitMarket(
		ctx context.Context, authority string, feeRateBps uint64, feeRecipient string,
	) errors.Error
	GetMarketInfo(ctx context.Context) (*MarketInfo, errors.Error)
	FundVault(
		ctx context.Context, owner, assetID, externalHolding string,
	) (*domain.Vault, errors.Error)
	WithdrawVault(ctx context.Context, owner, assetID, externalHolding string) errors.Error
	CreateListing(
		ctx context.Context, seller, assetID string,
		priceConfig domain.PriceConfig, validFrom, validUntil *int64,
	) (*domain.Listing, errors.Error)
	CancelListing(ctx context.Context, seller, assetID string) errors.Error
	BuyNow(
		ctx context.Context, buyer, seller, assetID string,
		buyerFunds uint64, buyerHolding string,
	) (*Receipt, errors.Error)
	RegisterAttestor(ctx context.Context, attestor string) errors.Error
	AttestFloor(
		ctx context.Context, attestor, collection string, floor uint64,
	) (*domain.Attestation, errors.Error)
	ForceCancelListing(
		ctx context.Context, seller, assetID, collection, attestor string, nonce uint64,
	) errors.Error
}

type MarketInfo struct {
	Authority      string
	FeeRateBps     uint64
	RoyaltyRateBps uint64
	FeeRecipient   string
}

// Receipt summarizes a settled purchase. Fee goes to the market fee
// recipient, royalty and proceeds both to the seller.
type Receipt struct {
	ID       string
	Price    uint64
	Fee      uint64
	Royalty  uint64
	Proceeds uint64
}
