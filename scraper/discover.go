package scraper

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/use-agent/ballotmap/config"
	"github.com/use-agent/ballotmap/models"
)

// Discoverer finds the per-county JSON base URLs of a contest by clicking
// through the results site. It owns one Session and can run once.
type Discoverer struct {
	mu          sync.Mutex
	session     *Session
	cfg         config.DiscoveryConfig
	titleMarker string
}

// NewDiscoverer returns a Discoverer driving driver. The driver is closed
// when Discover returns.
func NewDiscoverer(driver Driver, cfg config.DiscoveryConfig, titleMarker string) *Discoverer {
	return &Discoverer{
		session:     NewSession(driver),
		cfg:         cfg,
		titleMarker: titleMarker,
	}
}

// Discover returns one endpoint per county listed on entryURL, in page
// order. A non-empty filter keeps only the named counties (compared in
// uppercase).
func (d *Discoverer) Discover(ctx context.Context, entryURL string, filter []string) ([]models.CountyEndpoint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.session.Open(ctx, entryURL, d.titleMarker); err != nil {
		if d.session.State() != StateClosed {
			_ = d.session.Close()
		}
		return nil, err
	}
	defer func() {
		if err := d.session.Close(); err != nil {
			slog.Warn("closing discovery session failed", "error", err)
		}
	}()

	rows, err := d.session.Counties(ctx)
	if err != nil {
		return nil, err
	}

	allowed := filterSet(filter)
	label := "All counties"
	if allowed != nil {
		label = strings.Join(filter, ", ")
	}
	slog.Info("getting detail page URLs", "counties", label, "rows", len(rows))

	var endpoints []models.CountyEndpoint
	for _, row := range rows {
		county := strings.ToUpper(row.ID)
		if allowed != nil {
			if _, ok := allowed[county]; !ok {
				continue
			}
		}

		current, err := d.session.OpenDetail(ctx, row, d.cfg.DetailMarker, d.cfg.DetailWaitTimeout)
		if err != nil {
			return nil, err
		}
		base := BaseURL(current)
		slog.Debug("county endpoint discovered", "county", county, "base", base)
		endpoints = append(endpoints, models.CountyEndpoint{County: county, BaseURL: base})

		if err := d.session.Return(ctx); err != nil {
			return nil, err
		}
	}

	if len(endpoints) == 0 {
		slog.Warn("no county endpoints discovered", "counties", label)
	}
	return endpoints, nil
}

// filterSet returns nil for an empty filter, meaning every county.
func filterSet(filter []string) map[string]struct{} {
	if len(filter) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(filter))
	for _, c := range filter {
		set[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	return set
}
