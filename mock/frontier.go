package mock

import (
	"context"

	"github.com/fwojciec/rankcrawl"
)

var _ rankcrawl.URLSet = (*URLSet)(nil)

// URLSet is a mock implementation of rankcrawl.URLSet.
type URLSet struct {
	AddFn  func(url string) bool
	SeenFn func(url string) bool
}

func (s *URLSet) Add(url string) bool {
	return s.AddFn(url)
}

func (s *URLSet) Seen(url string) bool {
	return s.SeenFn(url)
}

var _ rankcrawl.VisitPacer = (*VisitPacer)(nil)

// VisitPacer is a mock implementation of rankcrawl.VisitPacer.
type VisitPacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *VisitPacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}
