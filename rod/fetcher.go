package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/extract"
	"github.com/fwojciec/prospect/goquery"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements prospect.Fetcher at compile time.
var _ prospect.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds one Fetch, render wait included.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves rendered profile pages using Chrome browser automation.
// After the load event it keeps polling the page until the profile has
// populated or the render wait times out, since profile pages fill in after
// load.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	browser []ManagerOption
	timeout time.Duration
	wait    extract.WaitConfig
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-fetch timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithWait sets how the fetcher polls for a populated page.
func WithWait(cfg extract.WaitConfig) Option {
	return func(f *Fetcher) {
		f.wait = cfg
	}
}

// WithBrowser configures the browser the fetcher launches.
func WithBrowser(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.browser = append(f.browser, opts...)
	}
}

// NewFetcher creates a Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		wait: extract.WaitConfig{
			Interval: extract.DefaultWaitInterval,
			Timeout:  extract.DefaultWaitTimeout,
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.browser...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML once the profile
// has populated or the render wait has elapsed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", prospect.Errorf(prospect.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser, err := f.manager.Browser()
	if err != nil {
		return "", err
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", ctxErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", ctxErr(ctx, err)
	}

	var html string
	snapshot := func(ctx context.Context) (prospect.Document, error) {
		h, err := page.HTML()
		if err != nil {
			return nil, err
		}
		html = h
		return goquery.Parse(h, url)
	}
	if _, err := extract.Wait(ctx, snapshot, f.wait); err != nil {
		return "", ctxErr(ctx, err)
	}
	return html, nil
}

// ctxErr prefers the context's error so callers can match on
// context.Canceled and context.DeadlineExceeded.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}
