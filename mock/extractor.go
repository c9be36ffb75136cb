package mock

import (
	"context"

	"github.com/fwojciec/rankcrawl"
)

var _ rankcrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of rankcrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(ctx context.Context, pageURL, body string) ([]string, error)
}

func (e *LinkExtractor) Extract(ctx context.Context, pageURL, body string) ([]string, error) {
	return e.ExtractFn(ctx, pageURL, body)
}
