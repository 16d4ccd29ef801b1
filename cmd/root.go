package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/flockwood/Offside-Tool/internal/config"
	"github.com/flockwood/Offside-Tool/internal/pipeline"
	"github.com/flockwood/Offside-Tool/internal/player"
	"github.com/flockwood/Offside-Tool/internal/tasks"
)

// CLI is the complete command structure of the offside tool.
type CLI struct {
	Verbose bool `help:"Enable debug logging"`

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape one player into the catalog"`
	Bulk    BulkCmd    `cmd:"" help:"Scrape a list of players in one run"`
	Refresh RefreshCmd `cmd:"" help:"Re-scrape every player already linked to the source"`
}

// ScrapeCmd scrapes a single player, by name or by external identifier.
type ScrapeCmd struct {
	Name string `arg:"" optional:"" help:"Player name to search for"`
	ID   string `help:"External identifier, skips the name search"`
}

// BulkCmd scrapes many players: names on the command line, a watchlist
// file, or both.
type BulkCmd struct {
	Names []string `arg:"" optional:"" help:"Player names to scrape"`
	Input string   `short:"f" help:"Path to a YAML watchlist file"`
}

// RefreshCmd re-scrapes linked players, once or on a schedule.
type RefreshCmd struct {
	Schedule string `help:"Cron spec to run on a schedule instead of once (e.g. @daily)"`
}

// Execute runs the Kong-based CLI.
func Execute() {
	initLogging(false)
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("offside"),
		kong.Description("A tool to build a player catalog from a public football data source."),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		initLogging(true)
	}

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	viper.AutomaticEnv()
	if err := viper.BindEnv("db.url", "DATABASE_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("redis.url", "REDIS_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func (s *ScrapeCmd) Run() error {
	if s.Name == "" && s.ID == "" {
		return fmt.Errorf("a player name or --id is required")
	}

	app, err := buildApp(context.Background(), config.Load())
	if err != nil {
		return err
	}
	defer app.Close()

	result := app.runner.ScrapePlayer(context.Background(), pipeline.Target{
		Name:       s.Name,
		ExternalID: s.ID,
	})
	if err := printResult(result); err != nil {
		return err
	}
	return errorFromResult(result)
}

func (b *BulkCmd) Run() error {
	names := b.Names
	if b.Input != "" {
		fromFile, err := loadWatchlist(b.Input)
		if err != nil {
			return err
		}
		names = append(names, fromFile...)
	}
	if len(names) == 0 {
		return fmt.Errorf("no players given (pass names or --input watchlist)")
	}

	targets := make([]pipeline.Target, len(names))
	for i, name := range names {
		targets[i] = pipeline.Target{Name: name}
	}

	app, err := buildApp(context.Background(), config.Load())
	if err != nil {
		return err
	}
	defer app.Close()

	result := app.runner.BulkScrape(context.Background(), targets)
	return printResult(result)
}

func (r *RefreshCmd) Run() error {
	cfg := config.Load()
	app, err := buildApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if r.Schedule == "" {
		result, err := app.runner.RefreshCatalog(context.Background())
		if err != nil {
			return err
		}
		return printResult(result)
	}

	scheduler := tasks.NewScheduler(app.runner, r.Schedule)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	scheduler.Stop()
	return nil
}

// errorFromResult turns a failed single-player outcome into a non-zero
// exit, after the result has already been printed.
func errorFromResult(result tasks.Result) error {
	if result.Outcome == nil {
		return nil
	}
	if result.Outcome.Status == player.StatusError {
		return fmt.Errorf("scrape failed: %s", result.Outcome.Detail)
	}
	return nil
}
