package domain

import (
	"math/bits"
	"time"
)

const (
	// MaxFeeRateBps caps the marketplace fee at 10%.
	MaxFeeRateBps = 1000
	// RoyaltyRateBps is the flat royalty rate applied on every sale.
	// Royalty-recipient resolution from asset metadata is not implemented,
	// the royalty is folded into the seller payout.
	RoyaltyRateBps = 500
	// BpsDenominator converts basis points to a fraction.
	BpsDenominator = 10000
)

// MarketConfig is the marketplace singleton: created once, immutable after.
type MarketConfig struct {
	Authority    string
	FeeRateBps   uint64
	FeeRecipient string
	CreatedAt    time.Time
}

func NewMarketConfig(authority string, feeRateBps uint64, feeRecipient string) *MarketConfig {
	return &MarketConfig{
		Authority:    authority,
		FeeRateBps:   feeRateBps,
		FeeRecipient: feeRecipient,
		CreatedAt:    time.Now(),
	}
}

// BpsShare returns amount*rateBps/BpsDenominator through a 128-bit
// intermediate, the product wraps in plain uint64 for amounts above 2^50.
// rateBps must stay below BpsDenominator.
func BpsShare(amount, rateBps uint64) uint64 {
	hi, lo := bits.Mul64(amount, rateBps)
	share, _ := bits.Div64(hi, lo, BpsDenominator)
	return share
}
