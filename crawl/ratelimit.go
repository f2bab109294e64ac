package crawl

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles page loads per host.
type Limiter interface {
	Wait(ctx context.Context, host string) error
}

var _ Limiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host, so loads from different
// hosts proceed concurrently while each host sees at most rps loads per
// second.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps loads per second
// per host, with no bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until a load from host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
