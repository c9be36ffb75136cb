package rankcrawl

import "context"

// Fetcher retrieves the body of a URL.
// Implementations may simulate the visit instead of touching the network.
type Fetcher interface {
	// Fetch visits the URL and returns its body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)
}

// LinkExtractor decides which URLs to enqueue after a visit.
type LinkExtractor interface {
	// Extract returns candidate follow-up URLs for a visited page.
	// The body is whatever the Fetcher returned for pageURL.
	Extract(ctx context.Context, pageURL, body string) ([]string, error)
}
