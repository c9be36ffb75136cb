package crawl

import (
	"sync"

	"github.com/fwojciec/rankcrawl"
)

// RankTable counts visits per domain and remembers the order in which
// domains were first seen. It is safe for concurrent use by multiple
// goroutines.
type RankTable struct {
	mu         sync.Mutex
	index      map[string]int
	entries    []rankcrawl.RankEntry
	maxDomains int
}

// NewRankTable creates an empty table. A positive maxDomains caps the number
// of distinct domains; zero leaves the table unbounded.
func NewRankTable(maxDomains int) *RankTable {
	return &RankTable{
		index:      make(map[string]int),
		maxDomains: max(maxDomains, 0),
	}
}

// RecordVisit increments the count for domain, inserting it with a count of
// one on first sighting. Returns EFULL if the table is capped and the domain
// would be a new entry past the cap; the table is left unchanged.
func (t *RankTable) RecordVisit(domain string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i, ok := t.index[domain]; ok {
		t.entries[i].Count++
		return nil
	}
	if t.maxDomains > 0 && len(t.entries) >= t.maxDomains {
		return rankcrawl.Errorf(rankcrawl.EFULL, "rank table full (%d domains), dropping %q", t.maxDomains, domain)
	}
	t.index[domain] = len(t.entries)
	t.entries = append(t.entries, rankcrawl.RankEntry{Domain: domain, Count: 1})
	return nil
}

// Contains returns true if the domain has been recorded.
func (t *RankTable) Contains(domain string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.index[domain]
	return ok
}

// Count returns the visit count for domain, or zero if unseen.
func (t *RankTable) Count(domain string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.index[domain]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Len returns the number of distinct domains.
func (t *RankTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Snapshot returns a copy of all entries in first-seen order.
func (t *RankTable) Snapshot() []rankcrawl.RankEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]rankcrawl.RankEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
