package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/internal/core/ports"
	"github.com/escrowless/marketd/internal/infrastructure/db"
	"github.com/stretchr/testify/require"
)

func testRepoManagers(t *testing.T) map[string]ports.RepoManager {
	badgerSvc, err := db.NewService(db.ServiceConfig{
		DataStoreType:   "badger",
		DataStoreConfig: []interface{}{"", nil},
	})
	require.NoError(t, err)

	sqliteSvc, err := db.NewService(db.ServiceConfig{
		DataStoreType:   "sqlite",
		DataStoreConfig: []interface{}{t.TempDir()},
	})
	require.NoError(t, err)

	return map[string]ports.RepoManager{
		"badger": badgerSvc,
		"sqlite": sqliteSvc,
	}
}

func TestUnsupportedStoreType(t *testing.T) {
	_, err := db.NewService(db.ServiceConfig{DataStoreType: "postgres"})
	require.Error(t, err)
}

func TestMarketConfigRepository(t *testing.T) {
	ctx := context.Background()
	for name, svc := range testRepoManagers(t) {
		t.Run(name, func(t *testing.T) {
			defer svc.Close()
			repo := svc.MarketConfigs()

			config, err := repo.Get(ctx)
			require.NoError(t, err)
			require.Nil(t, config)

			require.NoError(t, repo.Add(ctx, *domain.NewMarketConfig("auth", 250, "fees")))

			config, err = repo.Get(ctx)
			require.NoError(t, err)
			require.NotNil(t, config)
			require.Equal(t, "auth", config.Authority)
			require.Equal(t, uint64(250), config.FeeRateBps)
			require.Equal(t, "fees", config.FeeRecipient)

			err = repo.Add(ctx, *domain.NewMarketConfig("other", 100, "fees"))
			require.Equal(t, domain.ErrDuplicateKey, err)
		})
	}
}

func TestVaultRepository(t *testing.T) {
	ctx := context.Background()
	for name, svc := range testRepoManagers(t) {
		t.Run(name, func(t *testing.T) {
			defer svc.Close()
			repo := svc.Vaults()
			vault := domain.NewVault("alice", "asset-1")

			_, err := repo.Get(ctx, vault.Key())
			require.Equal(t, domain.ErrKeyNotFound, err)

			require.NoError(t, repo.Add(ctx, *vault))
			require.Equal(t, domain.ErrDuplicateKey, repo.Add(ctx, *vault))

			got, err := repo.Get(ctx, vault.Key())
			require.NoError(t, err)
			require.Equal(t, vault.Owner, got.Owner)
			require.Equal(t, vault.AssetID, got.AssetID)

			require.NoError(t, repo.Delete(ctx, vault.Key()))
			require.Equal(t, domain.ErrKeyNotFound, repo.Delete(ctx, vault.Key()))
		})
	}
}

func TestListingRepository(t *testing.T) {
	ctx := context.Background()
	for name, svc := range testRepoManagers(t) {
		t.Run(name, func(t *testing.T) {
			defer svc.Close()
			repo := svc.Listings()

			until := int64(1000)
			expired := domain.NewListing("alice", "asset-1", domain.PriceConfig{
				PriceType:  domain.PriceTypeLinearDecay,
				StartPrice: 200,
				MinPrice:   100,
				Duration:   60,
			}, nil, &until)
			open := domain.NewListing("alice", "asset-2", domain.PriceConfig{
				PriceType: domain.PriceTypeFixed, StartPrice: 500,
			}, nil, nil)

			require.NoError(t, repo.Add(ctx, *expired))
			require.NoError(t, repo.Add(ctx, *open))
			require.Equal(t, domain.ErrDuplicateKey, repo.Add(ctx, *expired))

			got, err := repo.Get(ctx, expired.Key())
			require.NoError(t, err)
			require.Equal(t, expired.Seller, got.Seller)
			require.Equal(t, expired.PriceConfig, got.PriceConfig)
			require.Equal(t, expired.VaultKey, got.VaultKey)
			require.Nil(t, got.ValidFrom)
			require.NotNil(t, got.ValidUntil)
			require.Equal(t, until, *got.ValidUntil)

			expiredListings, err := repo.GetExpired(ctx, until+1)
			require.NoError(t, err)
			require.Len(t, expiredListings, 1)
			require.Equal(t, expired.Key(), expiredListings[0].Key())

			expiredListings, err = repo.GetExpired(ctx, until)
			require.NoError(t, err)
			require.Empty(t, expiredListings)

			require.NoError(t, repo.Delete(ctx, expired.Key()))
			require.Equal(t, domain.ErrKeyNotFound, repo.Delete(ctx, expired.Key()))
		})
	}
}

func TestListingDeleteHasOneWinner(t *testing.T) {
	ctx := context.Background()
	for name, svc := range testRepoManagers(t) {
		t.Run(name, func(t *testing.T) {
			defer svc.Close()
			repo := svc.Listings()

			listing := domain.NewListing("alice", "asset-1", domain.PriceConfig{
				PriceType: domain.PriceTypeFixed, StartPrice: 100,
			}, nil, nil)
			require.NoError(t, repo.Add(ctx, *listing))

			const workers = 8
			var wg sync.WaitGroup
			results := make([]error, workers)
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func(i int) {
					defer wg.Done()
					results[i] = repo.Delete(ctx, listing.Key())
				}(i)
			}
			wg.Wait()

			winners := 0
			for _, err := range results {
				if err == nil {
					winners++
					continue
				}
				require.Equal(t, domain.ErrKeyNotFound, err)
			}
			require.Equal(t, 1, winners)
		})
	}
}

func TestAttestationRepository(t *testing.T) {
	ctx := context.Background()
	for name, svc := range testRepoManagers(t) {
		t.Run(name, func(t *testing.T) {
			defer svc.Close()
			repo := svc.Attestations()

			state := domain.NewAttestorState("oracle")
			_, err := repo.GetState(ctx, state.Key())
			require.Equal(t, domain.ErrKeyNotFound, err)

			require.NoError(t, repo.AddState(ctx, *state))
			require.Equal(t, domain.ErrDuplicateKey, repo.AddState(ctx, *state))

			state.LastNonce = 7
			require.NoError(t, repo.UpdateState(ctx, *state))
			got, err := repo.GetState(ctx, state.Key())
			require.NoError(t, err)
			require.Equal(t, uint64(7), got.LastNonce)

			attestation := domain.Attestation{
				Attestor:   "oracle",
				Collection: "punks",
				Floor:      100,
				Nonce:      7,
				CreatedAt:  12345,
			}
			require.NoError(t, repo.Add(ctx, attestation))
			require.Equal(t, domain.ErrDuplicateKey, repo.Add(ctx, attestation))

			stored, err := repo.Get(ctx, attestation.Key())
			require.NoError(t, err)
			require.False(t, stored.Used)
			require.Equal(t, attestation.Floor, stored.Floor)

			require.NoError(t, repo.MarkUsed(ctx, attestation.Key()))
			stored, err = repo.Get(ctx, attestation.Key())
			require.NoError(t, err)
			require.True(t, stored.Used)

			require.Equal(
				t, domain.ErrKeyNotFound,
				repo.MarkUsed(ctx, domain.AttestationKey("oracle", 99)),
			)
		})
	}
}
