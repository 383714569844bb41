package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestLinearDecayPrice(t *testing.T) {
	t0 := int64(1_700_000_000)
	listing := Listing{
		Seller:  "seller",
		AssetID: "asset-1",
		PriceConfig: PriceConfig{
			PriceType:  PriceTypeLinearDecay,
			StartPrice: 2_000_000_000,
			MinPrice:   1_000_000_000,
			Duration:   3600,
		},
		CreatedAt: t0,
	}

	testCases := []struct {
		now           int64
		expectedPrice uint64
		description   string
	}{
		{t0, 2_000_000_000, "decay has not started yet"},
		{t0 - 100, 2_000_000_000, "before listing creation"},
		{t0 + 1800, 1_500_000_000, "halfway through the decay"},
		{t0 + 3600, 1_000_000_000, "exactly at the end of the decay"},
		{t0 + 7200, 1_000_000_000, "long after the decay holds at the floor"},
		{t0 + 1, 1_999_722_223, "one second in, floor rounded"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			require.Equal(t, tc.expectedPrice, listing.PriceAt(tc.now))
		})
	}
}

func TestLinearDecayStartsAtWindowOpening(t *testing.T) {
	createdAt := int64(1_700_000_000)
	validFrom := createdAt + 600
	listing := Listing{
		PriceConfig: PriceConfig{
			PriceType:  PriceTypeLinearDecay,
			StartPrice: 1000,
			MinPrice:   0,
			Duration:   100,
		},
		ValidFrom: int64Ptr(validFrom),
		CreatedAt: createdAt,
	}

	// t0 is the later of createdAt and validFrom
	require.Equal(t, uint64(1000), listing.PriceAt(createdAt+300))
	require.Equal(t, uint64(1000), listing.PriceAt(validFrom))
	require.Equal(t, uint64(500), listing.PriceAt(validFrom+50))
	require.Equal(t, uint64(0), listing.PriceAt(validFrom+100))
}

func TestFixedPriceIgnoresDecayFields(t *testing.T) {
	listing := Listing{
		PriceConfig: PriceConfig{
			PriceType:  PriceTypeFixed,
			StartPrice: 42,
			MinPrice:   1,
			Duration:   -5,
		},
		CreatedAt: 1_700_000_000,
	}
	require.Equal(t, uint64(42), listing.PriceAt(1_700_000_000))
	require.Equal(t, uint64(42), listing.PriceAt(1_900_000_000))
}

func TestLinearDecayNoOverflow(t *testing.T) {
	listing := Listing{
		PriceConfig: PriceConfig{
			PriceType:  PriceTypeLinearDecay,
			StartPrice: 1<<64 - 1,
			MinPrice:   0,
			Duration:   1 << 40,
		},
		CreatedAt: 0,
	}
	half := listing.PriceAt(1 << 39)
	require.InEpsilon(t, float64(1<<63), float64(half), 1e-9)
}

func TestPriceConfigValidate(t *testing.T) {
	testCases := []struct {
		config      PriceConfig
		wantErr     bool
		description string
	}{
		{
			config:      PriceConfig{PriceType: PriceTypeFixed, StartPrice: 100},
			description: "fixed price",
		},
		{
			config:      PriceConfig{PriceType: PriceTypeFixed, StartPrice: 0},
			wantErr:     true,
			description: "zero start price",
		},
		{
			config: PriceConfig{
				PriceType: PriceTypeLinearDecay, StartPrice: 100, MinPrice: 50, Duration: 60,
			},
			description: "valid decay",
		},
		{
			config: PriceConfig{
				PriceType: PriceTypeLinearDecay, StartPrice: 100, MinPrice: 200, Duration: 60,
			},
			wantErr:     true,
			description: "min price above start price",
		},
		{
			config: PriceConfig{
				PriceType: PriceTypeLinearDecay, StartPrice: 100, MinPrice: 50, Duration: 0,
			},
			wantErr:     true,
			description: "non-positive duration",
		},
		{
			config: PriceConfig{
				PriceType: PriceTypeFixed, StartPrice: 100, MinPrice: 200, Duration: -1,
			},
			description: "fixed ignores min price and duration",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateWindow(t *testing.T) {
	valid := Listing{ValidFrom: int64Ptr(100), ValidUntil: int64Ptr(200)}
	require.NoError(t, valid.ValidateWindow())

	openEnded := Listing{ValidFrom: int64Ptr(100)}
	require.NoError(t, openEnded.ValidateWindow())

	inverted := Listing{ValidFrom: int64Ptr(200), ValidUntil: int64Ptr(100)}
	require.Error(t, inverted.ValidateWindow())

	empty := Listing{ValidFrom: int64Ptr(100), ValidUntil: int64Ptr(100)}
	require.Error(t, empty.ValidateWindow())
}

func TestIsPurchasable(t *testing.T) {
	testCases := []struct {
		listing     Listing
		now         int64
		expected    bool
		description string
	}{
		{Listing{}, 1000, true, "no window"},
		{Listing{ValidFrom: int64Ptr(500)}, 499, false, "before window opens"},
		{Listing{ValidFrom: int64Ptr(500)}, 500, true, "window opening is inclusive"},
		{Listing{ValidUntil: int64Ptr(500)}, 500, true, "window closing is inclusive"},
		{Listing{ValidUntil: int64Ptr(500)}, 501, false, "after window closes"},
		{
			Listing{ValidFrom: int64Ptr(100), ValidUntil: int64Ptr(200)},
			150, true, "inside window",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.listing.IsPurchasable(tc.now))
		})
	}
}

func TestAttestationFreshness(t *testing.T) {
	att := Attestation{CreatedAt: 1000}
	require.True(t, att.IsFresh(1000))
	require.True(t, att.IsFresh(1300))
	require.False(t, att.IsFresh(1301))
}
