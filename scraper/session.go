package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/ballotmap/models"
)

// State is the position of a Session in its page lifecycle.
type State int

const (
	StateIdle State = iota
	StateEntry
	StateDetail
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEntry:
		return "entry"
	case StateDetail:
		return "detail"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrInvalidTransition is wrapped by every error returned for an operation
// attempted in the wrong state.
var ErrInvalidTransition = errors.New("invalid session transition")

// Session walks the entry page and the county detail pages of one contest:
// idle → entry → detail → entry … → closed. It is not safe for concurrent use.
type Session struct {
	driver   Driver
	entryURL string
	state    State
}

// NewSession returns an idle session over driver.
func NewSession(driver Driver) *Session {
	return &Session{driver: driver, state: StateIdle}
}

// State reports the current state.
func (s *Session) State() State { return s.state }

func (s *Session) expect(op string, allowed ...State) error {
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, op, s.state)
}

// Open loads the entry page and checks that its title contains marker.
func (s *Session) Open(ctx context.Context, entryURL, marker string) error {
	if err := s.expect("open", StateIdle); err != nil {
		return err
	}
	if err := s.driver.Navigate(ctx, entryURL); err != nil {
		return err
	}
	s.entryURL = entryURL

	title := s.driver.Title(ctx)
	if !strings.Contains(title, marker) {
		return models.NewPipelineError(
			models.ErrCodeNavigation,
			fmt.Sprintf("entry page title %q does not contain %q", title, marker),
			nil,
		)
	}

	s.state = StateEntry
	return nil
}

// Counties lists the county rows on the entry page.
func (s *Session) Counties(ctx context.Context) ([]CountyRow, error) {
	if err := s.expect("list counties", StateEntry); err != nil {
		return nil, err
	}
	html, err := s.driver.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return ParseCountyRows(html)
}

// OpenDetail clicks through to a county's detail page and returns the URL
// the browser landed on. A detail page that does not show marker within
// wait is logged and the current URL is used anyway.
func (s *Session) OpenDetail(ctx context.Context, row CountyRow, marker string, wait time.Duration) (string, error) {
	if err := s.expect("open detail", StateEntry); err != nil {
		return "", err
	}
	if err := s.driver.ClickDetail(ctx, row.Index); err != nil {
		return "", err
	}
	s.state = StateDetail

	if err := s.driver.WaitFor(ctx, marker, wait); err != nil {
		if ctx.Err() != nil {
			return "", categorizeError(ctx.Err(), "discovery canceled")
		}
		slog.Warn("page took too long to load",
			"county", row.ID,
			"wait", wait,
			"error", err,
		)
	}

	return s.driver.CurrentURL(ctx), nil
}

// Return navigates back to the entry page.
func (s *Session) Return(ctx context.Context) error {
	if err := s.expect("return", StateDetail); err != nil {
		return err
	}
	if err := s.driver.Navigate(ctx, s.entryURL); err != nil {
		return err
	}
	s.state = StateEntry
	return nil
}

// Close releases the driver. Closing twice is an error.
func (s *Session) Close() error {
	if err := s.expect("close", StateIdle, StateEntry, StateDetail); err != nil {
		return err
	}
	s.state = StateClosed
	return s.driver.Close()
}
