package rankcrawl

import "context"

// URLSet remembers URLs that were already enqueued.
type URLSet interface {
	// Add records the URL.
	// Returns false if the URL has already been added.
	Add(url string) bool

	// Seen returns true if the URL has been added.
	Seen(url string) bool
}

// VisitPacer limits how fast visits start across all workers.
type VisitPacer interface {
	// Wait blocks until the next visit may start.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
