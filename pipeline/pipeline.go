// Package pipeline runs everything after endpoint discovery: fetch, merge,
// aggregate, write artifacts, notify the map.
package pipeline

import (
	"context"
	"io"
	"log/slog"

	"github.com/use-agent/ballotmap/aggregate"
	"github.com/use-agent/ballotmap/config"
	"github.com/use-agent/ballotmap/dataset"
	"github.com/use-agent/ballotmap/engine"
	"github.com/use-agent/ballotmap/merge"
	"github.com/use-agent/ballotmap/models"
	"github.com/use-agent/ballotmap/report"
	"github.com/use-agent/ballotmap/results"
	"github.com/use-agent/ballotmap/webhook"
)

// unmatchedPreview is how many unmatched rows the console table shows.
const unmatchedPreview = 20

// Outcome summarises a finished run.
type Outcome struct {
	Records   int
	Matched   int
	Unmatched int
	Summary   *aggregate.Summary
	Notified  bool
}

// Pipeline turns discovered endpoints into the map's artifacts.
type Pipeline struct {
	cfg     *config.Config
	fetcher *results.Fetcher
	out     io.Writer
}

// New returns a Pipeline fetching through e. Console tables go to out.
func New(cfg *config.Config, e engine.Engine, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		fetcher: results.NewFetcher(e, cfg.Fetch),
		out:     out,
	}
}

// Run executes the stages in order. Reference files are read before any
// network traffic so a missing file fails fast. A failed map refresh is
// logged and does not fail the run.
func (p *Pipeline) Run(ctx context.Context, endpoints []models.CountyEndpoint) (*Outcome, error) {
	files := p.cfg.Files

	canonical, canonicalHeader, err := dataset.ReadCanonical(files.CanonicalCSV)
	if err != nil {
		return nil, err
	}
	demographics, err := dataset.ReadDemographics(files.DemographicsCSV)
	if err != nil {
		return nil, err
	}
	slog.Info("reference files loaded",
		"canonical", len(canonical),
		"demographics", len(demographics),
	)

	contest := p.cfg.Contest
	votes, err := p.fetcher.FetchPrecincts(ctx, endpoints, contest.RepCandidate, contest.DemCandidate)
	if err != nil {
		return nil, err
	}

	merged := merge.Merge(votes, canonical)
	if err := dataset.WriteMatched(files.MatchedCSV, merged.Matched, canonicalHeader); err != nil {
		return nil, err
	}
	suggestions := merge.Suggest(merged.Unmatched, canonical)
	if err := dataset.WriteUnmatched(files.UnmatchedCSV, suggestions); err != nil {
		return nil, err
	}

	summary := aggregate.Aggregate(merged.Matched, demographics, aggregate.Options{
		RaceFields: p.cfg.Aggregate.RaceFields,
	})
	if err := dataset.WriteJSON(files.AggregateJSON, summary); err != nil {
		return nil, err
	}
	slog.Info("artifacts written",
		"matched", files.MatchedCSV,
		"unmatched", files.UnmatchedCSV,
		"aggregate", files.AggregateJSON,
	)

	if p.out != nil {
		report.Summary(p.out, summary)
		if len(suggestions) > 0 {
			report.Unmatched(p.out, suggestions, unmatchedPreview)
		}
	}

	outcome := &Outcome{
		Records:   len(votes),
		Matched:   len(merged.Matched),
		Unmatched: len(merged.Unmatched),
		Summary:   summary,
	}
	outcome.Notified = p.notify(ctx, endpoints, outcome)
	return outcome, nil
}

func (p *Pipeline) notify(ctx context.Context, endpoints []models.CountyEndpoint, o *Outcome) bool {
	n := p.cfg.Notify
	if n.WebhookURL == "" {
		slog.Info("map refresh skipped, no webhook configured")
		return false
	}

	counties := make([]string, len(endpoints))
	for i, ep := range endpoints {
		counties[i] = ep.County
	}
	event := webhook.NewRefreshEvent(webhook.RefreshData{
		AggregatePath: p.cfg.Files.AggregateJSON,
		MatchedPath:   p.cfg.Files.MatchedCSV,
		Counties:      counties,
		Matched:       o.Matched,
		Unmatched:     o.Unmatched,
	})
	if err := webhook.DeliverWithRetry(ctx, n.WebhookURL, n.Secret, event, n.Retries); err != nil {
		slog.Error("map refresh failed", "url", n.WebhookURL, "error", err)
		return false
	}
	slog.Info("map refresh delivered", "run_id", event.RunID)
	return true
}
