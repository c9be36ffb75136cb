package crawl

import (
	"context"

	"github.com/fwojciec/rankcrawl"
	"golang.org/x/time/rate"
)

var _ rankcrawl.VisitPacer = (*VisitPacer)(nil)

// VisitPacer limits how many visits start per second across all workers
// using a token bucket with a burst of 1.
type VisitPacer struct {
	limiter *rate.Limiter
}

// NewVisitPacer creates a pacer allowing rps visits per second.
// A non-positive rps disables pacing.
func NewVisitPacer(rps float64) *VisitPacer {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &VisitPacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next visit may start.
// Returns an error if the context is canceled before the wait completes.
func (p *VisitPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
