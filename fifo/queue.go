// Package fifo provides a bounded, thread-safe FIFO queue used as the
// hand-off point between curriculum producers and a request source.
//
// Producers (dataset readers, curriculum schedulers, replay feeds) fill
// the queue from their own goroutines; a single consumer drains it with
// non-blocking pops. The queue is a thin wrapper over a buffered
// channel, so select-based integration remains possible via Chan.
package fifo

import (
	"context"
	"sync/atomic"
)

// Queue is a bounded FIFO of items of type T. Safe for concurrent
// producers and consumers.
type Queue[T any] struct {
	ch chan T

	pushes atomic.Int64
	pops   atomic.Int64
}

// New creates a queue holding at most capacity items. Capacity must be
// positive; a zero or negative capacity panics, matching make(chan).
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic("fifo: capacity must be positive")
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push blocks until the item is enqueued or ctx is done.
func (q *Queue[T]) Push(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		q.pushes.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPush enqueues the item if there is room, reporting whether it did.
func (q *Queue[T]) TryPush(v T) bool {
	select {
	case q.ch <- v:
		q.pushes.Add(1)
		return true
	default:
		return false
	}
}

// Pop blocks until an item is available or ctx is done.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	select {
	case v := <-q.ch:
		q.pops.Add(1)
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryPop dequeues the oldest item without blocking, reporting whether
// an item was available.
func (q *Queue[T]) TryPop() (T, bool) {
	select {
	case v := <-q.ch:
		q.pops.Add(1)
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len reports the number of items currently buffered.
func (q *Queue[T]) Len() int { return len(q.ch) }

// Cap reports the queue capacity.
func (q *Queue[T]) Cap() int { return cap(q.ch) }

// Chan exposes the receive side of the underlying channel for use in
// select statements. Receiving from it bypasses the pop counter.
func (q *Queue[T]) Chan() <-chan T { return q.ch }

// Stats reports lifetime push and pop counts.
func (q *Queue[T]) Stats() (pushes, pops int64) {
	return q.pushes.Load(), q.pops.Load()
}
