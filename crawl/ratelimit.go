package crawl

import (
	"context"
	"sync"

	"github.com/quietriver/sitesage"
	"golang.org/x/time/rate"
)

var _ sitesage.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces the politeness throttle between consecutive
// fetches using per-domain token buckets. Each domain gets its own
// limiter with a burst of 1, so the delay applies uniformly regardless of
// whether the previous fetch succeeded.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second to each domain.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
