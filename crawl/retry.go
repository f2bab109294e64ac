package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/prospect"
)

// ReadFunc loads and extracts one profile page.
type ReadFunc func(ctx context.Context, url string) (*prospect.Profile, error)

// DefaultProbeDelays returns the fixed backoff between read attempts:
// three attempts, 500ms apart.
func DefaultProbeDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}
}

// ReadWithRetry reads url, retrying transient failures after each of the
// given delays. Failures that another attempt cannot fix are returned at
// once. A nil logger disables retry logging.
func ReadWithRetry(ctx context.Context, url string, read ReadFunc, delays []time.Duration, logger *slog.Logger) (*prospect.Profile, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		profile, err := read(ctx, url)
		if err == nil {
			return profile, nil
		}
		lastErr = err
		if !retryable(err) || attempt == len(delays) {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if logger != nil {
			logger.Debug("retrying profile read", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return nil, lastErr
}

func retryable(err error) bool {
	switch prospect.ErrorCode(err) {
	case prospect.EINVALID, prospect.ENOTFOUND, prospect.EUNAUTHORIZED, prospect.ERATELIMIT:
		return false
	}
	return true
}
