// Package pipeline orchestrates scrape jobs end to end: resolve a name to
// an identifier, fetch and parse the profile, reconcile it into the
// catalog. Every job item terminates in an Outcome; no failure of one item
// can abort a bulk run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	scouterrors "github.com/flockwood/Offside-Tool/internal/errors"
	"github.com/flockwood/Offside-Tool/internal/player"
)

const (
	defaultWorkers    = 4
	defaultJobTimeout = 2 * time.Minute
)

// Target identifies one player to ingest, by external identifier when
// known, otherwise by name.
type Target struct {
	Name       string
	ExternalID string
}

// Label returns the display form of the target for outcomes and logs.
func (t Target) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ExternalID
}

// ProfileSource fetches and extracts a player profile by external
// identifier; satisfied by *transfermarkt.Client.
type ProfileSource interface {
	Profile(ctx context.Context, externalID string) (*player.Candidate, error)
}

// NameResolver maps a player name to an external identifier; satisfied by
// *resolve.Resolver.
type NameResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Merger merges a candidate into the catalog; satisfied by
// *reconcile.Reconciler.
type Merger interface {
	Reconcile(ctx context.Context, cand *player.Candidate) (player.Outcome, error)
}

// LinkLister enumerates the external identifiers already linked in the
// catalog; satisfied by any store.PlayerStore.
type LinkLister interface {
	ListLinkedExternalIDs(ctx context.Context) ([]string, error)
}

// Orchestrator runs scrape jobs. The source it holds owns the politeness
// delay, so one Orchestrator (and one source) serves all workers.
type Orchestrator struct {
	source     ProfileSource
	resolver   NameResolver
	merger     Merger
	workers    int
	jobTimeout time.Duration
}

// Option is a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the bulk worker count.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithJobTimeout bounds the wall time of a single job item.
func WithJobTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.jobTimeout = d
		}
	}
}

// New creates an Orchestrator.
func New(source ProfileSource, resolver NameResolver, merger Merger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:     source,
		resolver:   resolver,
		merger:     merger,
		workers:    defaultWorkers,
		jobTimeout: defaultJobTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunSingle ingests one target. It always returns a terminal Outcome,
// never an error: failures are folded into the outcome status.
func (o *Orchestrator) RunSingle(ctx context.Context, target Target) player.Outcome {
	ctx, cancel := context.WithTimeout(ctx, o.jobTimeout)
	defer cancel()

	out := o.runOne(ctx, target)
	out.Target = target.Label()
	return out
}

// RunBulk ingests targets concurrently and returns one outcome per target,
// index-aligned with the input, plus the aggregate summary. A failed item
// only affects its own slot.
func (o *Orchestrator) RunBulk(ctx context.Context, targets []Target) ([]player.Outcome, player.Summary) {
	outcomes := make([]player.Outcome, len(targets))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = o.RunSingle(ctx, targets[i])
			}
		}()
	}
	for i := range targets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := player.Summarize(outcomes)
	slog.Info("Bulk run finished",
		"targets", len(targets),
		"created", summary.Created,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"not_found", summary.NotFound,
		"errors", summary.Errors)
	return outcomes, summary
}

// RunRefresh re-ingests every record already linked to the source. Records
// without an external identifier are not touched. A listing failure aborts
// the run; per-item failures do not.
func (o *Orchestrator) RunRefresh(ctx context.Context, lister LinkLister) ([]player.Outcome, player.Summary, error) {
	ids, err := lister.ListLinkedExternalIDs(ctx)
	if err != nil {
		return nil, player.Summary{}, err
	}

	targets := make([]Target, len(ids))
	for i, id := range ids {
		targets[i] = Target{ExternalID: id}
	}
	slog.Info("Refreshing linked players", "count", len(targets))
	outcomes, summary := o.RunBulk(ctx, targets)
	return outcomes, summary, nil
}

// runOne executes the resolve, fetch, reconcile sequence for one target
// and maps every failure mode onto an outcome status.
func (o *Orchestrator) runOne(ctx context.Context, target Target) (out player.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Job panicked", "target", target.Label(), "panic", r)
			out = player.Outcome{
				Status: player.StatusError,
				Detail: fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	externalID := target.ExternalID
	if externalID == "" {
		id, err := o.resolver.Resolve(ctx, target.Name)
		if err != nil {
			return outcomeForError(err)
		}
		externalID = id
	}

	cand, err := o.source.Profile(ctx, externalID)
	if err != nil {
		return outcomeForError(err)
	}

	merged, err := o.merger.Reconcile(ctx, cand)
	if err != nil {
		return outcomeForError(err)
	}
	return merged
}

// outcomeForError maps a pipeline error onto a terminal outcome. A missing
// player (zero search hits, or a gone profile page) is not_found; every
// other failure is an error outcome carrying the message.
func outcomeForError(err error) player.Outcome {
	if scouterrors.IsNotFoundError(err) {
		return player.Outcome{Status: player.StatusNotFound, Detail: err.Error()}
	}

	var netErr *scouterrors.NetworkError
	if errors.As(err, &netErr) && netErr.StatusCode == 404 {
		return player.Outcome{Status: player.StatusNotFound, Detail: err.Error()}
	}

	return player.Outcome{Status: player.StatusError, Detail: err.Error()}
}
