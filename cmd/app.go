package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/flockwood/Offside-Tool/internal/config"
	"github.com/flockwood/Offside-Tool/internal/fetch"
	"github.com/flockwood/Offside-Tool/internal/pipeline"
	"github.com/flockwood/Offside-Tool/internal/reconcile"
	"github.com/flockwood/Offside-Tool/internal/resolve"
	"github.com/flockwood/Offside-Tool/internal/store"
	"github.com/flockwood/Offside-Tool/internal/tasks"
	"github.com/flockwood/Offside-Tool/internal/transfermarkt"
)

// app is the wired application: one shared fetcher behind one source
// client, one store, one task runner.
type app struct {
	runner  *tasks.Runner
	store   store.PlayerStore
	backend *tasks.RedisBackend
}

// buildApp wires the pipeline from the resolved configuration.
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(
		fetch.WithMinDelay(cfg.MinDelay),
		fetch.WithMaxAttempts(cfg.MaxAttempts),
		fetch.WithRateLimitBackoff(cfg.RateLimitBackoff),
		fetch.WithUserAgent(cfg.UserAgent),
	)
	client := transfermarkt.NewClient(fetcher, transfermarkt.WithBaseURL(cfg.SourceBaseURL))

	var resolveOpts []resolve.Option
	if cfg.RequireUnique {
		resolveOpts = append(resolveOpts, resolve.WithRequireUnique())
	}
	resolver := resolve.New(client, resolveOpts...)

	orch := pipeline.New(client, resolver, reconcile.New(st),
		pipeline.WithWorkers(cfg.BulkWorkers),
		pipeline.WithJobTimeout(cfg.JobTimeout),
	)

	a := &app{store: st}
	var runnerOpts []tasks.Option
	if cfg.RedisURL != "" {
		backend, err := tasks.NewRedisBackend(ctx, cfg.RedisURL, cfg.ResultTTL)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		a.backend = backend
		runnerOpts = append(runnerOpts, tasks.WithResultBackend(backend))
	}

	a.runner = tasks.NewRunner(orch, st, runnerOpts...)
	return a, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	if a.backend != nil {
		_ = a.backend.Close()
	}
	_ = a.store.Close()
}

// openStore opens the catalog backend named by the configuration.
func openStore(ctx context.Context, cfg config.Config) (store.PlayerStore, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		return store.OpenSQLite(cfg.DBPath)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("db.url (or DATABASE_URL) is required for the postgres driver")
		}
		return store.OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

// printResult writes the task result as indented JSON to stdout.
func printResult(result tasks.Result) error {
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}
