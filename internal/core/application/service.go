package application

import (
	"context"
	"fmt"
	"time"

	"github.com/escrowless/marketd/internal/core/domain"
	"github.com/escrowless/marketd/internal/core/ports"
	"github.com/escrowless/marketd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type service struct {
	repoManager ports.RepoManager
	assets      ports.AssetLedger
	funds       ports.FundsLedger
	cache       ports.LiveStore
	scheduler   ports.SchedulerService
	sweeper     *sweeper

	sweepInterval int64
}

func NewService(
	repoManager ports.RepoManager,
	assets ports.AssetLedger,
	funds ports.FundsLedger,
	cache ports.LiveStore,
	scheduler ports.SchedulerService,
	sweepInterval int64,
) (Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if assets == nil || funds == nil {
		return nil, fmt.Errorf("missing ledgers")
	}
	if cache == nil {
		return nil, fmt.Errorf("missing live store")
	}
	if sweepInterval > 0 && scheduler == nil {
		return nil, fmt.Errorf("missing scheduler")
	}

	svc := &service{
		repoManager:   repoManager,
		assets:        assets,
		funds:         funds,
		cache:         cache,
		scheduler:     scheduler,
		sweepInterval: sweepInterval,
	}
	if sweepInterval > 0 {
		svc.sweeper = newSweeper(repoManager, scheduler, sweepInterval)
	}
	return svc, nil
}

func (s *service) Start() errors.Error {
	if s.sweeper != nil {
		s.scheduler.Start()
		if err := s.sweeper.start(); err != nil {
			return errors.INTERNAL_ERROR.Wrap(err)
		}
		log.Debugf("started listing sweeper with interval %ds", s.sweepInterval)
	}
	return nil
}

func (s *service) Stop() {
	if s.sweeper != nil {
		s.scheduler.Stop()
	}
	s.repoManager.Close()
	log.Debug("closed connection to db")
}

func (s *service) InitMarket(
	ctx context.Context, authority string, feeRateBps uint64, feeRecipient string,
) errors.Error {
	if feeRateBps > domain.MaxFeeRateBps {
		return errors.FEE_TOO_HIGH.New(
			"fee rate %d bps exceeds the maximum %d", feeRateBps, domain.MaxFeeRateBps,
		).WithMetadata(errors.FeeMetadata{
			FeeRateBps: feeRateBps, MaxFeeBps: domain.MaxFeeRateBps,
		})
	}

	config := domain.NewMarketConfig(authority, feeRateBps, feeRecipient)
	if err := s.repoManager.MarketConfigs().Add(ctx, *config); err != nil {
		if err == domain.ErrDuplicateKey {
			return errors.ALREADY_EXISTS.New("market config already initialized")
		}
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	log.Infof("market initialized with authority %s, fee rate %d bps", authority, feeRateBps)
	return nil
}

func (s *service) GetMarketInfo(ctx context.Context) (*MarketInfo, errors.Error) {
	config, err := s.marketConfig(ctx)
	if err != nil {
		return nil, err
	}
	return &MarketInfo{
		Authority:      config.Authority,
		FeeRateBps:     config.FeeRateBps,
		RoyaltyRateBps: domain.RoyaltyRateBps,
		FeeRecipient:   config.FeeRecipient,
	}, nil
}

// marketConfig loads the singleton config, failing if InitMarket never ran.
func (s *service) marketConfig(ctx context.Context) (*domain.MarketConfig, errors.Error) {
	config, err := s.repoManager.MarketConfigs().Get(ctx)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(err)
	}
	if config == nil {
		return nil, errors.NOT_INITIALIZED.New("market config not initialized")
	}
	return config, nil
}

func now() int64 {
	return time.Now().Unix()
}
