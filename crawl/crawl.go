// Package crawl provides the concurrent crawl engine: a bounded URL queue,
// a global visit budget, a per-domain rank table and the workers that
// coordinate through them.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/fwojciec/rankcrawl"
	"github.com/fwojciec/rankcrawl/bloom"
	"golang.org/x/sync/errgroup"
)

// URL set configuration for follow-up deduplication.
const (
	// seenExpectedURLs is the expected number of URLs for Bloom filter sizing.
	seenExpectedURLs = 10000
	// seenFalsePositiveRate is the acceptable false positive rate for deduplication.
	seenFalsePositiveRate = 0.01
)

// Crawler runs a pool of workers over a shared queue, budget and rank table.
type Crawler struct {
	Config    rankcrawl.Config
	Fetcher   rankcrawl.Fetcher
	Extractor rankcrawl.LinkExtractor // optional
	Pacer     rankcrawl.VisitPacer    // optional

	// Seen deduplicates follow-up URLs when Config.DedupeURLs is set.
	// Defaults to a Bloom filter.
	Seen rankcrawl.URLSet

	Logger   *slog.Logger
	Progress ProgressFunc // optional, called concurrently from workers
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type   ProgressType
	Worker int
	URL    string
	Domain string
	Reason rankcrawl.StopReason
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressVisited ProgressType = iota
	ProgressFailed
	ProgressStopped
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Run seeds the queue, starts the workers, waits for all of them to stop
// and returns the final rankings.
//
// Cancellation of ctx, or reaching Config.Timeout, stops the run early and
// still returns a report. If workers do not return within
// Config.ShutdownTimeout after that, Run gives up with ETIMEOUT.
func (c *Crawler) Run(ctx context.Context) (*rankcrawl.Report, error) {
	cfg := c.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c.Fetcher == nil {
		return nil, rankcrawl.Errorf(rankcrawl.EINVALID, "fetcher required")
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	queue := NewBoundedQueue[string](cfg.QueueCapacity)
	budget := NewVisitBudget(cfg.VisitBudget)
	ranks := NewRankTable(cfg.MaxDomains)
	stats := &Stats{}

	fetcher := c.Fetcher
	if len(cfg.RetryDelays) > 0 {
		fetcher = &RetryFetcher{
			Next:   fetcher,
			Delays: cfg.RetryDelays,
			Log: func(format string, args ...any) {
				logger.Info(fmt.Sprintf(format, args...))
			},
		}
	}

	var seen rankcrawl.URLSet
	if cfg.DedupeURLs {
		seen = c.Seen
		if seen == nil {
			seen = bloom.NewURLSet(seenExpectedURLs, seenFalsePositiveRate)
		}
	}

	report := &rankcrawl.Report{StartedAt: time.Now().UTC()}

	// Seeds fit by validation, so this never blocks.
	for _, u := range cfg.SeedURLs {
		if seen != nil {
			seen.Add(u)
		}
		if err := queue.Enqueue(context.Background(), u); err != nil {
			return nil, fmt.Errorf("seed %s: %w", u, err)
		}
	}

	// Register every worker before any starts so that an early worker
	// cannot mistake itself for the last consumer.
	for range cfg.WorkerCount {
		queue.AddConsumer()
	}

	logger.Info("crawl started",
		"workers", cfg.WorkerCount,
		"capacity", cfg.QueueCapacity,
		"budget", budget.Limit(),
		"seeds", len(cfg.SeedURLs),
	)

	reasons := make([]rankcrawl.StopReason, cfg.WorkerCount)
	g, gctx := errgroup.WithContext(ctx)
	for i := range cfg.WorkerCount {
		w := &Worker{
			ID:          i + 1,
			Queue:       queue,
			Budget:      budget,
			Ranks:       ranks,
			Stats:       stats,
			Fetcher:     fetcher,
			Extractor:   c.Extractor,
			Pacer:       c.Pacer,
			Seen:        seen,
			SentinelURL: cfg.SentinelURL,
			Logger:      logger,
			Progress:    c.Progress,
		}
		g.Go(func() error {
			defer queue.RemoveConsumer()
			reason, err := w.Run(gctx)
			reasons[i] = reason
			if c.Progress != nil {
				c.Progress(ProgressEvent{Type: ProgressStopped, Worker: w.ID, Reason: reason, Error: err})
			}
			if err != nil {
				return fmt.Errorf("worker %d: %w", w.ID, err)
			}
			return nil
		})
	}

	if err := waitWorkers(ctx, g, cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	starved := queue.Closed()
	queue.Close()

	report.FinishedAt = time.Now().UTC()
	report.Visits = int(stats.Visits.Load())
	report.Failed = int(stats.Failed.Load())
	report.Entries = ranks.Snapshot()
	report.Reason = runStopReason(ctx, reasons)
	report.Digest = ComputeDigest(report.Entries)

	attrs := []any{
		"visits", report.Visits,
		"failed", report.Failed,
		"domains", len(report.Entries),
		"budget_used", budget.Used(),
		"budget_exhausted", budget.Exhausted(),
		"queue_starved", starved,
		"reason", report.Reason,
		"duration", report.FinishedAt.Sub(report.StartedAt),
	}
	if s, ok := seen.(*bloom.URLSet); ok {
		attrs = append(attrs, "urls_seen", s.EstimatedCount())
	}
	logger.Info("crawl finished", attrs...)

	return report, nil
}

// waitWorkers waits for the group to finish. Once ctx ends it waits at most
// timeout more; a non-positive timeout waits indefinitely.
func waitWorkers(ctx context.Context, g *errgroup.Group, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	if timeout <= 0 {
		return <-done
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return rankcrawl.Errorf(rankcrawl.ETIMEOUT, "workers did not stop within %s of cancellation", timeout)
	}
}

// runStopReason picks the reason reported for the whole run.
func runStopReason(ctx context.Context, reasons []rankcrawl.StopReason) rankcrawl.StopReason {
	switch {
	case ctx.Err() != nil:
		return rankcrawl.StopCanceled
	case slices.Contains(reasons, rankcrawl.StopSentinel):
		return rankcrawl.StopSentinel
	case slices.Contains(reasons, rankcrawl.StopBudget):
		return rankcrawl.StopBudget
	default:
		return rankcrawl.StopDrained
	}
}
