package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/ballotmap/config"
	"github.com/use-agent/ballotmap/engine"
	"github.com/use-agent/ballotmap/models"
	"github.com/use-agent/ballotmap/pipeline"
	"github.com/use-agent/ballotmap/scraper"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	// Logs go to stderr; stdout carries the summary tables.
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))
	slog.Info("ballotmap starting",
		"entryURL", cfg.Contest.EntryURL,
		"counties", cfg.Contest.Counties,
		"rep", cfg.Contest.RepCandidate,
		"dem", cfg.Contest.DemCandidate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := run(ctx, cfg); err != nil {
		var code string
		var pe *models.PipelineError
		if errors.As(err, &pe) {
			code = pe.Code
		}
		slog.Error("ballotmap failed", "code", code, "error", err)
		stop()
		os.Exit(1)
	}
	slog.Info("ballotmap finished", "elapsed", time.Since(start).Round(time.Millisecond))
}

func run(ctx context.Context, cfg *config.Config) error {
	// ── 3. Discover county endpoints (launches browser) ─────────────
	endpoints, err := discover(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("endpoints discovered", "count", len(endpoints))

	// ── 4. Fetch, merge, aggregate, notify ──────────────────────────
	p := pipeline.New(cfg, engine.NewHTTPEngine(), os.Stdout)
	outcome, err := p.Run(ctx, endpoints)
	if err != nil {
		return err
	}
	slog.Info("run complete",
		"records", outcome.Records,
		"matched", outcome.Matched,
		"unmatched", outcome.Unmatched,
		"notified", outcome.Notified,
	)
	return nil
}

// discover owns the browser for exactly the discovery stage.
func discover(ctx context.Context, cfg *config.Config) ([]models.CountyEndpoint, error) {
	browser, err := scraper.Launch(cfg.Browser)
	if err != nil {
		return nil, err
	}
	defer browser.Close()

	driver, err := browser.NewDriver(cfg.Discovery.NavigationTimeout, map[string]string{
		"Accept-Language": "en-US,en;q=0.9",
	})
	if err != nil {
		return nil, err
	}

	d := scraper.NewDiscoverer(driver, cfg.Discovery, cfg.Contest.TitleMarker)
	return d.Discover(ctx, cfg.Contest.EntryURL, cfg.Contest.Counties)
}
