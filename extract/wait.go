package extract

import (
	"context"
	"time"

	"github.com/fwojciec/prospect"
)

// Default bounds for Wait.
const (
	DefaultWaitInterval = 300 * time.Millisecond
	DefaultWaitTimeout  = 9 * time.Second
)

// WaitConfig bounds how long Wait polls a page.
type WaitConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Snapshot captures the current state of a page.
type Snapshot func(ctx context.Context) (prospect.Document, error)

// Ready reports whether the page has populated enough to extract: a name,
// the top card or the experience section is present.
func Ready(doc prospect.Node) bool {
	if doc == nil {
		return false
	}
	for _, s := range readySelectors {
		if doc.Has(s) {
			return true
		}
	}
	return false
}

// Wait polls snapshot until the page is Ready or the timeout elapses. The
// timeout is not an error: the last snapshot is returned and extraction
// proceeds on whatever the page holds. Cancelling ctx returns ctx.Err().
func Wait(ctx context.Context, snapshot Snapshot, cfg WaitConfig) (prospect.Document, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultWaitInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultWaitTimeout
	}
	deadline := time.NewTimer(cfg.Timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var last prospect.Document
	for {
		doc, err := snapshot(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		last = doc
		if Ready(doc) {
			return doc, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return last, nil
		case <-ticker.C:
		}
	}
}
