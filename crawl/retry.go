package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/rankcrawl"
)

var _ rankcrawl.Fetcher = (*RetryFetcher)(nil)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 100ms, 200ms, 400ms.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
}

// RetryFetcher wraps a Fetcher and retries failed visits.
// It makes len(Delays)+1 attempts, sleeping Delays[i] before retry i+1.
type RetryFetcher struct {
	Next   rankcrawl.Fetcher
	Delays []time.Duration
	Log    LogFunc // optional
}

// Fetch visits url through the wrapped fetcher, retrying on error.
// Context cancellation ends the retries early with the context error.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	maxAttempts := len(f.Delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		body, err := f.Next.Fetch(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if f.Log != nil {
			f.Log("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		timer := time.NewTimer(f.Delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", lastErr
}
