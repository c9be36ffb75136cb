package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/rankcrawl"
)

var _ rankcrawl.Fetcher = (*SimulatedFetcher)(nil)

// SimulatedFetcher pretends to visit a URL by waiting for Delay.
// It returns an empty body and never touches the network.
type SimulatedFetcher struct {
	Delay time.Duration
}

// Fetch waits for the configured delay or until ctx is done.
func (f *SimulatedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.Delay <= 0 {
		return "", ctx.Err()
	}
	timer := time.NewTimer(f.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", nil
	}
}
