package scraper

import (
	"context"
	"fmt"
	"time"
)

// fakeDriver simulates the results site. Clicking row i lands on
// details[i]; pages listed in slow never show the detail marker.
type fakeDriver struct {
	title   string
	html    string
	details []string
	slow    map[int]bool

	current  string
	calls    []string
	closed   int
	clickErr error
}

func (f *fakeDriver) Navigate(_ context.Context, url string) error {
	f.calls = append(f.calls, "navigate "+url)
	f.current = url
	return nil
}

func (f *fakeDriver) Title(context.Context) string { return f.title }

func (f *fakeDriver) HTML(context.Context) (string, error) {
	f.calls = append(f.calls, "html")
	return f.html, nil
}

func (f *fakeDriver) ClickDetail(_ context.Context, index int) error {
	f.calls = append(f.calls, fmt.Sprintf("click %d", index))
	if f.clickErr != nil {
		return f.clickErr
	}
	f.current = f.details[index]
	return nil
}

func (f *fakeDriver) WaitFor(context.Context, string, time.Duration) error {
	for i, d := range f.details {
		if d == f.current && f.slow[i] {
			return context.DeadlineExceeded
		}
	}
	return nil
}

func (f *fakeDriver) CurrentURL(context.Context) string { return f.current }

func (f *fakeDriver) Close() error {
	f.closed++
	return nil
}
