// FILE: tplog/src/internal/queue/queue.go
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Push once Close has been called
var ErrClosed = errors.New("queue closed")

// PushResult is the outcome of a non-blocking push
type PushResult int

const (
	Accepted PushResult = iota
	Full
	Closed
)

func (r PushResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Full:
		return "full"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("push_result(%d)", int(r))
	}
}

// Queue is a bounded multi-producer single-consumer FIFO.
// Producers hold the read side of mu while sending so Close can never race a send on a closed channel.
type Queue[T any] struct {
	items     chan T
	done      chan struct{}
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// New creates a queue holding at most capacity items
func New[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("queue capacity must be positive, got %d", capacity)
	}
	return &Queue[T]{
		items: make(chan T, capacity),
		done:  make(chan struct{}),
	}, nil
}

// TryPush enqueues v without blocking
func (q *Queue[T]) TryPush(v T) PushResult {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return Closed
	}

	select {
	case q.items <- v:
		return Accepted
	default:
		return Full
	}
}

// Push enqueues v, suspending until space frees up, ctx ends or the queue closes
func (q *Queue[T]) Push(ctx context.Context, v T) error {
	// Fast path keeps the common case off the select below
	switch q.TryPush(v) {
	case Accepted:
		return nil
	case Closed:
		return ErrClosed
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}

	select {
	case q.items <- v:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop blocks until an item is available. It returns false once the queue is closed and drained.
func (q *Queue[T]) Pop() (T, bool) {
	v, ok := <-q.items
	return v, ok
}

// PopBatch blocks for one item then drains without blocking up to cap(buf) items.
// The returned slice reuses buf. It returns false once the queue is closed and drained.
func (q *Queue[T]) PopBatch(buf []T) ([]T, bool) {
	return q.PopBatchOr(buf, nil)
}

// PopBatchOr is PopBatch that also returns, with an empty batch and true, once wake fires.
// A nil wake never fires.
func (q *Queue[T]) PopBatchOr(buf []T, wake <-chan struct{}) ([]T, bool) {
	buf = buf[:0]
	limit := cap(buf)
	if limit == 0 {
		limit = 1
	}

	select {
	case v, ok := <-q.items:
		if !ok {
			return buf, false
		}
		buf = append(buf, v)
	case <-wake:
		return buf, true
	}

	return q.drain(buf, limit), true
}

// TryPopN takes up to n queued items without blocking, appending them to buf
func (q *Queue[T]) TryPopN(buf []T, n int) []T {
	return q.drain(buf, len(buf)+n)
}

func (q *Queue[T]) drain(buf []T, limit int) []T {
	for len(buf) < limit {
		select {
		case v, ok := <-q.items:
			if !ok {
				return buf
			}
			buf = append(buf, v)
		default:
			return buf
		}
	}
	return buf
}

// Close rejects further pushes. Items already queued stay available to Pop.
func (q *Queue[T]) Close() {
	q.closeOnce.Do(func() {
		// Wake blocked producers first, they release the read lock on done
		close(q.done)

		q.mu.Lock()
		q.closed = true
		close(q.items)
		q.mu.Unlock()
	})
}

// IsClosed reports whether Close has been called
func (q *Queue[T]) IsClosed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

// Len returns the number of queued items
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Cap returns the fixed capacity
func (q *Queue[T]) Cap() int {
	return cap(q.items)
}

// IsPowerOfTwo reports whether n is a positive power of two
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
