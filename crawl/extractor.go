package crawl

import (
	"context"
	"slices"

	"github.com/fwojciec/rankcrawl"
)

var _ rankcrawl.LinkExtractor = (*FollowUpExtractor)(nil)

// FollowUpExtractor proposes the same fixed URLs after every visit,
// regardless of the page. It stands in for real link extraction.
type FollowUpExtractor struct {
	URLs []string
}

// NewFollowUpExtractor creates an extractor that proposes urls.
func NewFollowUpExtractor(urls ...string) *FollowUpExtractor {
	return &FollowUpExtractor{URLs: urls}
}

// Extract returns a copy of the configured URLs.
func (e *FollowUpExtractor) Extract(_ context.Context, _, _ string) ([]string, error) {
	return slices.Clone(e.URLs), nil
}
