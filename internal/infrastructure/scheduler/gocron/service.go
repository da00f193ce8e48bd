package scheduler

import (
	"fmt"
	"time"

	"github.com/ChiaveLabs/chiave/internal/core/ports"
	"github.com/go-co-op/gocron"
)

type service struct {
	scheduler *gocron.Scheduler
	job       *gocron.Job
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	job := gocron.Job{}
	return &service{svc, &job}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

func (s *service) ScheduleExpirySweep(interval time.Duration, sweep func()) error {
	if interval <= 0 {
		return fmt.Errorf("cannot schedule sweep with non-positive interval")
	}

	s.scheduler.Remove(s.job)

	job, err := s.scheduler.Every(interval).Do(sweep)
	if err != nil {
		return err
	}

	s.job = job
	return nil
}
