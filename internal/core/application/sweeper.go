package application

import (
	"context"

	"github.com/escrowless/marketd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// sweeper is an unexported service running while the main application service
// is started. It periodically removes listings whose validity window closed,
// so stale offers do not linger until someone trips over them.
type sweeper struct {
	repoManager ports.RepoManager
	scheduler   ports.SchedulerService
	interval    int64
}

func newSweeper(
	repoManager ports.RepoManager, scheduler ports.SchedulerService, interval int64,
) *sweeper {
	return &sweeper{repoManager, scheduler, interval}
}

func (s *sweeper) start() error {
	return s.scheduler.ScheduleRecurring(s.interval, s.sweep)
}

func (s *sweeper) sweep() {
	ctx := context.Background()
	expired, err := s.repoManager.Listings().GetExpired(ctx, now())
	if err != nil {
		log.WithError(err).Warn("sweeper: failed to fetch expired listings")
		return
	}
	if len(expired) <= 0 {
		return
	}

	count := 0
	for _, listing := range expired {
		if err := s.repoManager.Listings().Delete(ctx, listing.Key()); err != nil {
			// a concurrent cancel or purchase may have removed it already
			log.WithError(err).Debugf("sweeper: skipped listing %s", listing.Key())
			continue
		}
		count++
	}
	if count > 0 {
		log.Debugf("sweeper: removed %d expired listings", count)
	}
}
