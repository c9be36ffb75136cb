package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/rankcrawl"
)

// BoundedQueue is a fixed-capacity FIFO ring buffer with blocking Enqueue
// and Dequeue. It is safe for concurrent use by multiple goroutines.
//
// One mutex guards every field. Producers wait on notFull, consumers on
// notEmpty, and every wait re-checks its predicate in a loop.
//
// Goroutines that both consume and produce can register with AddConsumer.
// Once every registered consumer is blocked, the queue can make no further
// progress: if they all wait on an empty queue it closes itself, and if they
// all wait on a full one the last to arrive gets EFULL instead of blocking.
// With consumers registered, every goroutine calling Enqueue or Dequeue is
// expected to be one of them.
type BoundedQueue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf   []T
	front int
	rear  int
	count int

	closed     bool
	consumers  int
	getWaiting int
	putWaiting int
}

// NewBoundedQueue creates a queue that holds at most capacity items.
// It panics if capacity is less than 1.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	if capacity < 1 {
		panic("crawl: queue capacity must be at least 1")
	}
	q := &BoundedQueue[T]{buf: make([]T, capacity)}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item at the tail, blocking while the queue is full.
// Returns ECLOSED if the queue is closed, EFULL if every registered consumer
// is blocked on a full queue, or the context error if ctx ends first.
func (q *BoundedQueue[T]) Enqueue(ctx context.Context, item T) error {
	defer q.wakeOnDone(ctx)()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == len(q.buf) && !q.closed && ctx.Err() == nil {
		if q.consumers > 0 && q.putWaiting+1 >= q.consumers {
			return rankcrawl.Errorf(rankcrawl.EFULL, "queue full with all %d consumers blocked", q.consumers)
		}
		q.putWaiting++
		q.notFull.Wait()
		q.putWaiting--
	}

	if q.closed {
		return rankcrawl.Errorf(rankcrawl.ECLOSED, "queue closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	q.buf[q.rear] = item
	q.rear = (q.rear + 1) % len(q.buf)
	q.count++
	q.notEmpty.Signal()
	return nil
}

// Dequeue removes the item at the head, blocking while the queue is empty.
// The bool result is false once the queue is closed and drained.
// Returns the context error if ctx ends first.
func (q *BoundedQueue[T]) Dequeue(ctx context.Context) (T, bool, error) {
	defer q.wakeOnDone(ctx)()

	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	for q.count == 0 && !q.closed && ctx.Err() == nil {
		if q.consumers > 0 && q.getWaiting+1 >= q.consumers {
			// Nobody left to produce.
			q.closeLocked()
			break
		}
		q.getWaiting++
		q.notEmpty.Wait()
		q.getWaiting--
	}

	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if q.count == 0 {
		return zero, false, nil
	}

	item := q.buf[q.front]
	q.buf[q.front] = zero
	q.front = (q.front + 1) % len(q.buf)
	q.count--
	q.notFull.Signal()
	return item, true, nil
}

// Close marks the queue closed and wakes every waiter.
// Items already queued can still be dequeued. Close is idempotent.
func (q *BoundedQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closeLocked()
}

func (q *BoundedQueue[T]) closeLocked() {
	if q.closed {
		return
	}
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Closed reports whether the queue has been closed.
func (q *BoundedQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// AddConsumer registers a goroutine that consumes from and produces into
// the queue.
func (q *BoundedQueue[T]) AddConsumer() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.consumers++
}

// RemoveConsumer deregisters a consumer. If the remaining consumers are all
// blocked, the queue is closed or one blocked producer is released with EFULL.
func (q *BoundedQueue[T]) RemoveConsumer() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.consumers == 0 {
		return
	}
	q.consumers--
	if q.consumers == 0 {
		return
	}
	switch {
	case q.count == 0 && q.getWaiting >= q.consumers:
		q.closeLocked()
	case q.count == len(q.buf) && q.putWaiting >= q.consumers:
		q.notFull.Signal()
	}
}

// Len returns the number of queued items.
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the queue capacity.
func (q *BoundedQueue[T]) Cap() int {
	return len(q.buf)
}

// wakeOnDone arranges for blocked waiters to re-check their predicates when
// ctx ends. The returned function releases the registration.
func (q *BoundedQueue[T]) wakeOnDone(ctx context.Context) func() bool {
	if ctx.Done() == nil {
		return func() bool { return false }
	}
	return context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notFull.Broadcast()
		q.notEmpty.Broadcast()
		q.mu.Unlock()
	})
}
