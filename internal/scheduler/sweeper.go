package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/macrohero/backend/internal/metrics"
)

// Expirer drops entries whose lifetime has passed and reports how many.
type Expirer interface {
	DeleteExpired() int
}

// Sweeper periodically removes expired plan sessions.
type Sweeper struct {
	cron   *cron.Cron
	target Expirer
	log    logrus.FieldLogger
}

// NewSweeper creates a sweeper for target. Nothing runs until Register and Start.
func NewSweeper(target Expirer, log logrus.FieldLogger) *Sweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{
		cron:   cron.New(),
		target: target,
		log:    log.WithField("component", "sweeper"),
	}
}

// Register schedules the sweep. Schedule uses standard cron syntax or
// descriptors such as "@every 10m".
func (s *Sweeper) Register(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register session sweep %q: %w", schedule, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.log.Info("session sweeper started")
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("session sweeper stopped")
}

// RunNow performs one sweep immediately.
func (s *Sweeper) RunNow() int {
	removed := s.target.DeleteExpired()
	metrics.RecordSweep(removed)
	if removed > 0 {
		s.log.WithField("removed", removed).Info("expired plan sessions removed")
	}
	return removed
}
