package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the catalog refresh task on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	spec   string
}

// NewScheduler creates a Scheduler that fires RefreshCatalog on the given
// cron spec (e.g. "@daily" or "0 4 * * *").
func NewScheduler(runner *Runner, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   spec,
	}
}

// Start registers the refresh job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.runner.RefreshCatalog(ctx); err != nil {
			slog.Error("Scheduled refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	slog.Info("Scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}
