package results

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/use-agent/ballotmap/config"
	"github.com/use-agent/ballotmap/engine"
	"github.com/use-agent/ballotmap/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Fetcher retrieves and parses county result documents.
// It is safe for concurrent use.
type Fetcher struct {
	engine      engine.Engine
	limiter     *rate.Limiter
	concurrency int
	timeout     time.Duration
}

// NewFetcher creates a Fetcher that throttles requests through a shared
// token bucket and fetches up to cfg.Concurrency counties at once.
func NewFetcher(e engine.Engine, cfg config.FetchConfig) *Fetcher {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		engine:      e,
		limiter:     rate.NewLimiter(limit, burst),
		concurrency: concurrency,
		timeout:     cfg.Timeout,
	}
}

// FetchPrecincts returns the vote records of every endpoint, grouped in
// endpoint order. The first county failure aborts the whole fetch.
func (f *Fetcher) FetchPrecincts(ctx context.Context, endpoints []models.CountyEndpoint, rep, dem string) ([]*models.VoteRecord, error) {
	perCounty := make([][]*models.VoteRecord, len(endpoints))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i, ep := range endpoints {
		g.Go(func() error {
			records, err := f.fetchCounty(gctx, ep, rep, dem)
			if err != nil {
				return err
			}
			perCounty[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*models.VoteRecord
	for _, records := range perCounty {
		all = append(all, records...)
	}
	return all, nil
}

func (f *Fetcher) fetchCounty(ctx context.Context, ep models.CountyEndpoint, rep, dem string) ([]*models.VoteRecord, error) {
	slog.Info("getting precinct details", "county", ep.County, "baseURL", ep.BaseURL)

	roster, err := f.fetchDocument(ctx, ep.SummaryURL())
	if err != nil {
		return nil, err
	}
	tally, err := f.fetchDocument(ctx, ep.DetailsURL())
	if err != nil {
		return nil, err
	}

	records, err := ParseCounty(ep.County, roster, tally, rep, dem)
	if err != nil {
		return nil, err
	}
	slog.Debug("parsed county", "county", ep.County, "precincts", len(records))
	return records, nil
}

func (f *Fetcher) fetchDocument(ctx context.Context, url string) (*Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeTimeout, "rate limiter wait canceled", err)
	}

	res, err := f.engine.Fetch(ctx, &engine.FetchRequest{URL: url, Timeout: f.timeout})
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeFetch, "failed to fetch "+url, err)
	}

	var doc Document
	if err := json.Unmarshal(res.Body, &doc); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeParse, "malformed results document "+url, err)
	}
	return &doc, nil
}
