package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/escrowless/marketd/internal/core/application"
	inmemoryledger "github.com/escrowless/marketd/internal/infrastructure/ledger/inmemory"
	inmemorylivestore "github.com/escrowless/marketd/internal/infrastructure/live-store/inmemory"
	"github.com/escrowless/marketd/pkg/errors"
	"github.com/stretchr/testify/require"
)

type mockScheduler struct {
	task     func()
	interval int64
}

func (m *mockScheduler) Start() {}
func (m *mockScheduler) Stop()  {}
func (m *mockScheduler) ScheduleRecurring(interval int64, task func()) error {
	m.interval = interval
	m.task = task
	return nil
}

func TestSweeperRemovesExpiredListings(t *testing.T) {
	ctx := context.Background()
	repos := newMockRepoManager()
	assets := inmemoryledger.NewAssetLedger()
	funds := inmemoryledger.NewFundsLedger()
	scheduler := &mockScheduler{}

	svc, err := application.NewService(
		repos, assets, funds, inmemorylivestore.NewLiveStore(), scheduler, 60,
	)
	require.NoError(t, err)
	require.Nil(t, svc.Start())
	require.NotNil(t, scheduler.task)
	require.Equal(t, int64(60), scheduler.interval)

	require.NoError(t, assets.Mint(assetID, collection, seller))
	_, aErr := svc.FundVault(ctx, seller, assetID, seller)
	require.Nil(t, aErr)

	past := time.Now().Unix() - 10
	_, aErr = svc.CreateListing(ctx, seller, assetID, fixedPrice(100), nil, &past)
	require.Nil(t, aErr)

	scheduler.task()

	cErr := svc.CancelListing(ctx, seller, assetID)
	require.NotNil(t, cErr)
	require.Equal(t, errors.NOT_FOUND.Code, cErr.Code())

	// the asset never left custody
	require.Nil(t, svc.WithdrawVault(ctx, seller, assetID, seller))
}
