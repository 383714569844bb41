package timescheduler

import (
	"fmt"
	"time"

	"github.com/escrowless/marketd/internal/core/ports"
	"github.com/go-co-op/gocron"
)

type service struct {
	scheduler *gocron.Scheduler
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	return &service{svc}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

func (s *service) ScheduleRecurring(intervalSeconds int64, task func()) error {
	if intervalSeconds <= 0 {
		return fmt.Errorf("invalid interval")
	}
	_, err := s.scheduler.Every(int(intervalSeconds)).Seconds().Do(task)
	return err
}
