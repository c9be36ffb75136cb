package crawl

import "sync"

// VisitBudget caps the total number of visits across all workers.
// It is safe for concurrent use by multiple goroutines.
type VisitBudget struct {
	mu    sync.Mutex
	used  int
	limit int
}

// NewVisitBudget creates a budget that grants at most limit visits.
func NewVisitBudget(limit int) *VisitBudget {
	return &VisitBudget{limit: max(limit, 0)}
}

// TryConsume takes one visit from the budget.
// Returns false, without changing the budget, once it is exhausted.
// The check and the increment happen in a single critical section.
func (b *VisitBudget) TryConsume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

// Used returns the number of visits granted so far.
func (b *VisitBudget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

// Limit returns the maximum number of visits.
func (b *VisitBudget) Limit() int {
	return b.limit
}

// Exhausted reports whether no visits remain.
func (b *VisitBudget) Exhausted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used >= b.limit
}
