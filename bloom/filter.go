// Package bloom provides URL deduplication using Bloom filters.
package bloom

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/rankcrawl"
)

var _ rankcrawl.URLSet = (*URLSet)(nil)

// URLSet is a probabilistic set of URLs backed by a Bloom filter.
// False positives are possible, so a new URL is occasionally reported as
// seen; false negatives are not. It is safe for concurrent use.
type URLSet struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewURLSet creates a set sized for n expected URLs
// with the given false positive rate.
func NewURLSet(n uint, fpRate float64) *URLSet {
	return &URLSet{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records the URL. Returns false if it was (probably) added before.
// URL fragments are ignored.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.f.TestOrAddString(stripFragment(url))
}

// Seen returns true if the URL might have been added.
func (s *URLSet) Seen(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.TestString(stripFragment(url))
}

// EstimatedCount returns the approximate number of URLs in the set.
func (s *URLSet) EstimatedCount() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint(s.f.ApproximatedSize())
}

func stripFragment(url string) string {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		return url[:i]
	}
	return url
}
