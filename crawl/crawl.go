// Package crawl runs the extract-then-enrich pipeline over many profile
// pages with bounded concurrency.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/prospect"
	"github.com/fwojciec/prospect/bloom"
	"github.com/fwojciec/prospect/session"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages processed at once.
const DefaultConcurrency = 3

// dedupFalsePositiveRate bounds how often a distinct profile is mistaken for
// a repeat.
const dedupFalsePositiveRate = 0.0001

// Batch reads each profile page and, when an Enricher is set, looks up a
// contact for it.
type Batch struct {
	Reader   prospect.ProfileReader
	Enricher prospect.Enricher

	// Limiter throttles page loads per host. Optional.
	Limiter Limiter

	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Item is the outcome for one input URL.
type Item struct {
	URL     string            `json:"url"`
	Profile *prospect.Profile `json:"profile,omitempty"`
	Contact *prospect.Contact `json:"contact,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    string            `json:"code,omitempty"`
}

// Result summarizes a batch run.
type Result struct {
	Processed int
	Found     int
	Failed    int
	Skipped   int
}

// EmitFunc receives items in input order.
type EmitFunc func(Item) error

// Run processes urls and passes each outcome to emit in input order. URLs
// naming a page already seen in this run are skipped. Per-page failures are
// reported in the item; a fatal lookup error, an emit error or a cancelled
// context stops the run and is returned.
func (b *Batch) Run(ctx context.Context, urls []string, emit EmitFunc) (*Result, error) {
	result := &Result{}
	if len(urls) == 0 {
		return result, nil
	}

	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	delays := b.RetryDelays
	if delays == nil {
		delays = DefaultProbeDelays()
	}

	seen := bloom.NewFilter(uint(len(urls)), dedupFalsePositiveRate)
	var todo []int
	for i, u := range urls {
		if seen.Seen(session.Canonical(u)) {
			result.Skipped++
			continue
		}
		todo = append(todo, i)
	}

	items := make([]*Item, len(urls))
	ready := make([]chan struct{}, len(urls))
	for _, i := range todo {
		ready[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency + 1)

	// The emitter hands items over in input order as they complete.
	g.Go(func() error {
		for _, i := range todo {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ready[i]:
			}
			item := items[i]
			result.Processed++
			switch {
			case item.Error != "":
				result.Failed++
			case item.Contact.Found():
				result.Found++
			}
			if err := emit(*item); err != nil {
				return err
			}
		}
		return nil
	})

	for _, i := range todo {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			item, err := b.process(gctx, urls[i], delays)
			if err != nil {
				return err
			}
			items[i] = item
			close(ready[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// process returns an error only when the whole run must stop.
func (b *Batch) process(ctx context.Context, rawURL string, delays []time.Duration) (*Item, error) {
	item := &Item{URL: rawURL}
	fail := func(err error) (*Item, error) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if stopsRun(err) {
			return nil, err
		}
		item.Error = prospect.ErrorMessage(err)
		item.Code = prospect.ErrorCode(err)
		b.logger().Warn("batch item failed", "url", rawURL, "code", item.Code, "err", err)
		return item, nil
	}

	if !prospect.IsProfileURL(rawURL) {
		return fail(prospect.Errorf(prospect.EINVALID, "Not a profile page: %s", rawURL))
	}
	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx, host(rawURL)); err != nil {
			return nil, err
		}
	}

	profile, err := ReadWithRetry(ctx, rawURL, b.Reader.Read, delays, b.logger())
	if err != nil {
		return fail(err)
	}
	item.Profile = profile

	if b.Enricher == nil {
		return item, nil
	}
	contact, err := b.Enricher.Enrich(ctx, profile)
	if err != nil {
		return fail(err)
	}
	item.Contact = contact
	return item, nil
}

// stopsRun reports whether err would fail every remaining item too.
func stopsRun(err error) bool {
	return prospect.IsFatal(err) || prospect.ErrorCode(err) == prospect.ENOCREDENTIAL
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (b *Batch) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}
