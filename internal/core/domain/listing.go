package domain

import (
	"fmt"
	"math/bits"
	"time"
)

type PriceType uint8

const (
	PriceTypeFixed PriceType = iota
	PriceTypeLinearDecay
)

func (p PriceType) String() string {
	switch p {
	case PriceTypeFixed:
		return "fixed"
	case PriceTypeLinearDecay:
		return "linear_decay"
	default:
		return "unknown"
	}
}

// PriceConfig is the pricing policy of a listing. MinPrice and Duration are
// only meaningful for linear decay.
type PriceConfig struct {
	PriceType  PriceType
	StartPrice uint64
	MinPrice   uint64
	Duration   int64 // seconds
}

func (p PriceConfig) Validate() error {
	if p.StartPrice == 0 {
		return fmt.Errorf("start price must be greater than 0")
	}
	if p.PriceType == PriceTypeLinearDecay {
		if p.MinPrice > p.StartPrice {
			return fmt.Errorf(
				"min price %d must not exceed start price %d", p.MinPrice, p.StartPrice,
			)
		}
		if p.Duration <= 0 {
			return fmt.Errorf("duration must be positive for decay pricing")
		}
	}
	return nil
}

// Listing is a standing offer to sell the asset held in the vault derived
// from the same (seller, asset) pair. A listing record's presence is the
// lock on the sale: cancellation and settlement both remove the record, so
// a live record is always active.
type Listing struct {
	Seller      string
	AssetID     string
	VaultKey    Key
	PriceConfig PriceConfig
	ValidFrom   *int64
	ValidUntil  *int64
	CreatedAt   int64
}

func NewListing(
	seller, assetID string, priceConfig PriceConfig, validFrom, validUntil *int64,
) *Listing {
	return &Listing{
		Seller:      seller,
		AssetID:     assetID,
		VaultKey:    VaultKey(seller, assetID),
		PriceConfig: priceConfig,
		ValidFrom:   validFrom,
		ValidUntil:  validUntil,
		CreatedAt:   time.Now().Unix(),
	}
}

// Key returns the derived listing key.
func (l Listing) Key() Key {
	return ListingKey(l.Seller, l.AssetID)
}

func (l Listing) IsOwnedBy(seller string) bool {
	return l.Seller == seller
}

// ValidateWindow checks the optional validity window. Both bounds are only
// constrained against each other when both are set.
func (l Listing) ValidateWindow() error {
	if l.ValidFrom != nil && l.ValidUntil != nil && *l.ValidFrom >= *l.ValidUntil {
		return fmt.Errorf(
			"valid-from %d must precede valid-until %d", *l.ValidFrom, *l.ValidUntil,
		)
	}
	return nil
}

// PriceAt evaluates the pricing policy at the given unix time. Decay starts
// at the later of the listing creation and the window opening, and the
// price is clamped to [MinPrice, StartPrice] with floor rounding.
func (l Listing) PriceAt(now int64) uint64 {
	cfg := l.PriceConfig
	if cfg.PriceType == PriceTypeFixed {
		return cfg.StartPrice
	}

	t0 := l.CreatedAt
	if l.ValidFrom != nil && *l.ValidFrom > t0 {
		t0 = *l.ValidFrom
	}
	if now <= t0 {
		return cfg.StartPrice
	}

	elapsed := now - t0
	if elapsed >= cfg.Duration {
		return cfg.MinPrice
	}

	// 128-bit intermediate: diff*elapsed may overflow uint64, the quotient
	// never does since elapsed < duration.
	diff := cfg.StartPrice - cfg.MinPrice
	hi, lo := bits.Mul64(diff, uint64(elapsed))
	drop, _ := bits.Div64(hi, lo, uint64(cfg.Duration))
	return cfg.StartPrice - drop
}

// IsPurchasable reports whether the listing can settle at the given time.
func (l Listing) IsPurchasable(now int64) bool {
	if l.ValidFrom != nil && now < *l.ValidFrom {
		return false
	}
	if l.ValidUntil != nil && now > *l.ValidUntil {
		return false
	}
	return true
}

// IsExpired reports whether the validity window has closed for good.
func (l Listing) IsExpired(now int64) bool {
	return l.ValidUntil != nil && now > *l.ValidUntil
}
