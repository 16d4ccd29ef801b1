package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/flockwood/Offside-Tool/internal/pipeline"
	"github.com/flockwood/Offside-Tool/internal/player"
)

// Jobs is the pipeline surface the Runner drives; satisfied by
// *pipeline.Orchestrator.
type Jobs interface {
	RunSingle(ctx context.Context, target pipeline.Target) player.Outcome
	RunBulk(ctx context.Context, targets []pipeline.Target) ([]player.Outcome, player.Summary)
	RunRefresh(ctx context.Context, lister pipeline.LinkLister) ([]player.Outcome, player.Summary, error)
}

// Runner executes identified task runs and reports their results.
type Runner struct {
	jobs    Jobs
	lister  pipeline.LinkLister
	backend ResultBackend
}

// Option is a functional option for configuring the Runner.
type Option func(*Runner)

// WithResultBackend stores every task result in the given backend.
func WithResultBackend(backend ResultBackend) Option {
	return func(r *Runner) {
		r.backend = backend
	}
}

// NewRunner creates a Runner. The lister is consulted by refresh tasks.
func NewRunner(jobs Jobs, lister pipeline.LinkLister, opts ...Option) *Runner {
	r := &Runner{jobs: jobs, lister: lister}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ScrapePlayer ingests one target as an identified task.
func (r *Runner) ScrapePlayer(ctx context.Context, target pipeline.Target) Result {
	result := newResult(KindScrapePlayer)
	slog.Info("Task started", "task_id", result.TaskID, "task", result.TaskName, "target", target.Label())

	outcome := r.jobs.RunSingle(ctx, target)
	result.Outcome = &outcome

	r.store(ctx, result)
	return result
}

// BulkScrape ingests many targets as one identified task.
func (r *Runner) BulkScrape(ctx context.Context, targets []pipeline.Target) Result {
	result := newResult(KindBulkScrape)
	slog.Info("Task started", "task_id", result.TaskID, "task", result.TaskName, "targets", len(targets))

	items, summary := r.jobs.RunBulk(ctx, targets)
	result.Items = items
	result.Summary = &summary

	r.store(ctx, result)
	return result
}

// RefreshCatalog re-ingests every linked record as one identified task.
// Only a listing failure makes the task itself fail.
func (r *Runner) RefreshCatalog(ctx context.Context) (Result, error) {
	result := newResult(KindRefreshCatalog)
	slog.Info("Task started", "task_id", result.TaskID, "task", result.TaskName)

	items, summary, err := r.jobs.RunRefresh(ctx, r.lister)
	if err != nil {
		return Result{}, err
	}
	result.Items = items
	result.Summary = &summary

	r.store(ctx, result)
	return result, nil
}

// store writes the result to the backend when one is configured. A backend
// failure is logged, not propagated: the run itself already succeeded.
func (r *Runner) store(ctx context.Context, result Result) {
	if r.backend == nil {
		return
	}
	if err := r.backend.Store(ctx, result); err != nil {
		slog.Warn("Failed to store task result", "task_id", result.TaskID, "error", err)
	}
}

func newResult(kind Kind) Result {
	return Result{
		TaskID:    uuid.NewString(),
		TaskName:  kind,
		Timestamp: time.Now().UTC(),
	}
}
