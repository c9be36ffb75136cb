package crawl

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/fwojciec/rankcrawl"
)

// Stats holds counters shared by all workers of a run.
type Stats struct {
	Visits atomic.Int64
	Failed atomic.Int64
}

// Worker pulls URLs from a shared queue, visits them, ranks their domains
// and feeds follow-up URLs back into the queue.
//
// Each iteration takes a permit from the budget before dequeuing, so a
// worker never removes an item it is not allowed to visit. No lock is held
// while the page is fetched.
type Worker struct {
	ID     int
	Queue  *BoundedQueue[string]
	Budget *VisitBudget
	Ranks  *RankTable
	Stats  *Stats

	Fetcher   rankcrawl.Fetcher
	Extractor rankcrawl.LinkExtractor // optional
	Pacer     rankcrawl.VisitPacer    // optional
	Seen      rankcrawl.URLSet        // optional

	// SentinelURL stops this worker after it is visited.
	SentinelURL string

	Logger   *slog.Logger
	Progress ProgressFunc // optional, called from the worker goroutine
}

// Run executes the visit loop until the budget is exhausted, the sentinel
// is visited, the queue reports end of stream or ctx ends.
// Cancellation is a normal stop; only unexpected failures are returned.
func (w *Worker) Run(ctx context.Context) (rankcrawl.StopReason, error) {
	logger := w.logger()
	if w.Stats == nil {
		w.Stats = &Stats{}
	}
	for {
		if !w.Budget.TryConsume() {
			logger.Debug("budget exhausted")
			return rankcrawl.StopBudget, nil
		}

		url, ok, err := w.Queue.Dequeue(ctx)
		if err != nil {
			return stopOnError(ctx, err)
		}
		if !ok {
			logger.Debug("queue drained")
			return rankcrawl.StopDrained, nil
		}

		body, visited, err := w.visit(ctx, logger, url)
		if err != nil {
			return stopOnError(ctx, err)
		}

		if w.SentinelURL != "" && url == w.SentinelURL {
			logger.Debug("sentinel reached", "url", url)
			return rankcrawl.StopSentinel, nil
		}
		if !visited {
			continue
		}

		if err := w.enqueueFollowUps(ctx, logger, url, body); err != nil {
			if rankcrawl.ErrorCode(err) == rankcrawl.ECLOSED {
				return rankcrawl.StopDrained, nil
			}
			return stopOnError(ctx, err)
		}
	}
}

// visit fetches url and records its domain. The bool result is false when
// the fetch failed and the page should not produce follow-ups.
func (w *Worker) visit(ctx context.Context, logger *slog.Logger, url string) (string, bool, error) {
	if w.Pacer != nil {
		if err := w.Pacer.Wait(ctx); err != nil {
			return "", false, paceError(ctx, err)
		}
	}

	logger.Debug("crawling", "url", url)
	body, err := w.Fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		w.Stats.Failed.Add(1)
		logger.Warn("visit failed", "url", url, "err", err)
		w.report(ProgressEvent{Type: ProgressFailed, URL: url, Error: err})
		return "", false, nil
	}
	w.Stats.Visits.Add(1)

	domain := ParseDomain(url)
	logger.Debug("parsed domain", "url", url, "domain", domain)

	if err := w.Ranks.RecordVisit(domain); err != nil {
		if rankcrawl.ErrorCode(err) != rankcrawl.EFULL {
			return "", false, err
		}
		logger.Warn("domain not ranked", "domain", domain, "err", rankcrawl.ErrorMessage(err))
	}
	w.report(ProgressEvent{Type: ProgressVisited, URL: url, Domain: domain})
	return body, true, nil
}

// enqueueFollowUps asks the extractor for candidate URLs and enqueues those
// whose domain has not been ranked yet.
func (w *Worker) enqueueFollowUps(ctx context.Context, logger *slog.Logger, url, body string) error {
	if w.Extractor == nil {
		return nil
	}

	candidates, err := w.Extractor.Extract(ctx, url, body)
	if err != nil {
		logger.Warn("link extraction failed", "url", url, "err", err)
		return nil
	}

	for _, next := range candidates {
		if w.Ranks.Contains(ParseDomain(next)) {
			continue
		}
		if w.Seen != nil && !w.Seen.Add(next) {
			continue
		}
		if err := w.Queue.Enqueue(ctx, next); err != nil {
			if rankcrawl.ErrorCode(err) == rankcrawl.EFULL {
				logger.Warn("follow-up dropped", "url", next, "err", rankcrawl.ErrorMessage(err))
				continue
			}
			return err
		}
		logger.Debug("enqueued", "url", next, "from", url)
	}
	return nil
}

func (w *Worker) report(event ProgressEvent) {
	if w.Progress == nil {
		return
	}
	event.Worker = w.ID
	w.Progress(event)
}

func (w *Worker) logger() *slog.Logger {
	if w.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.Logger.With("worker", w.ID)
}

// paceError turns a pacer refusing to wait past the context deadline into
// the deadline itself. The pacer gives up early, while ctx is still live,
// when the next slot falls after the deadline.
func paceError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if _, ok := ctx.Deadline(); !ok {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

// stopOnError maps an error that ended the loop to a stop reason.
// Context cancellation is a normal stop and is not returned.
func stopOnError(ctx context.Context, err error) (rankcrawl.StopReason, error) {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return rankcrawl.StopCanceled, nil
	}
	return rankcrawl.StopCanceled, err
}
