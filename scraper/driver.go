package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/ballotmap/models"
	"github.com/ysmood/gson"
)

// Driver is the browser surface a Session needs.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) string
	HTML(ctx context.Context) (string, error)
	// ClickDetail clicks the detail link of the index-th county cell
	// matched by RowSelector.
	ClickDetail(ctx context.Context, index int) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	CurrentURL(ctx context.Context) string
	Close() error
}

// RodDriver drives a single Rod tab.
type RodDriver struct {
	page       *rod.Page
	router     *rod.HijackRouter
	navTimeout time.Duration
}

var _ Driver = (*RodDriver)(nil)

func (d *RodDriver) Navigate(ctx context.Context, url string) error {
	if d.navTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.navTimeout)
		defer cancel()
	}
	p := d.page.Context(ctx)

	if err := p.Navigate(url); err != nil {
		return categorizeError(err, "navigation to "+url+" failed")
	}
	if err := p.WaitLoad(); err != nil {
		return categorizeError(err, "page load did not complete")
	}
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
			"error", stableErr,
		)
	}
	return nil
}

func (d *RodDriver) Title(ctx context.Context) string {
	return evalStringOrEmpty(d.page.Context(ctx), `() => document.title`)
}

func (d *RodDriver) HTML(ctx context.Context) (string, error) {
	html, err := d.page.Context(ctx).HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

func (d *RodDriver) ClickDetail(ctx context.Context, index int) error {
	p := d.page.Context(ctx)

	cells, err := p.Elements(RowSelector)
	if err != nil {
		return categorizeError(err, "failed to list county rows")
	}
	if index < 0 || index >= len(cells) {
		return models.NewPipelineError(
			models.ErrCodeNavigation,
			fmt.Sprintf("county row %d out of range (%d rows)", index, len(cells)),
			nil,
		)
	}

	links, err := cells[index].Elements("a")
	if err != nil {
		return categorizeError(err, "failed to list county links")
	}
	if len(links) < 2 {
		return models.NewPipelineError(
			models.ErrCodeNavigation,
			fmt.Sprintf("county row %d has no detail link", index),
			nil,
		)
	}

	if err := links[1].Click(proto.InputMouseButtonLeft, 1); err != nil {
		return categorizeError(err, "failed to click county detail link")
	}
	return nil
}

func (d *RodDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return d.page.Context(ctx).WaitElementsMoreThan(selector, 0)
}

func (d *RodDriver) CurrentURL(ctx context.Context) string {
	return evalStringOrEmpty(d.page.Context(ctx), `() => window.location.href`)
}

// Close stops request interception and closes the tab.
func (d *RodDriver) Close() error {
	if d.router != nil {
		_ = d.router.Stop()
	}
	return d.page.Close()
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors.
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}

// categorizeError maps browser errors to a PipelineError with an
// appropriate code.
func categorizeError(err error, msg string) *models.PipelineError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewPipelineError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewPipelineError(models.ErrCodeTimeout, "discovery canceled", err)
	default:
		return models.NewPipelineError(models.ErrCodeNavigation, msg, err)
	}
}
