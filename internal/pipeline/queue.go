// Package pipeline provides the staged processing backbone: bounded
// single-producer/single-consumer queues that move buffer ownership between
// stages without copying, and a Pipeline that runs an ordered chain of
// stages with a cooperative start/stop/join lifecycle.
package pipeline

import (
	"fmt"
	"sync/atomic"
)

// WriteStatus is the result of a non-blocking Queue.Write
type WriteStatus int

const (
	// WriteAccepted means ownership of the item moved into the queue
	WriteAccepted WriteStatus = iota

	// WriteFull means no slot was free; the caller retains ownership
	WriteFull

	// WriteClosed means the queue no longer accepts items; the caller
	// retains ownership
	WriteClosed
)

// ReadStatus is the result of a non-blocking Queue.Read
type ReadStatus int

const (
	// ReadOK means ownership of the oldest item moved to the caller
	ReadOK ReadStatus = iota

	// ReadEmpty means the queue is open but holds nothing right now
	ReadEmpty

	// ReadClosed means the queue is closed and fully drained; no further
	// items will ever arrive
	ReadClosed
)

// Queue is a bounded FIFO ring for exactly one writer and one reader at a
// time. Both operations are non-blocking and return an explicit status, so
// stage loops stay responsive to cancellation without a wake mechanism.
// The cursors are monotonic; under the single-producer/single-consumer
// contract each endpoint mutates only its own cursor, so no mutex is needed.
type Queue[T any] struct {
	slots []T

	head   atomic.Uint64 // next slot to read, advanced only by the reader
	tail   atomic.Uint64 // next slot to write, advanced only by the writer
	closed atomic.Bool
}

// NewQueue creates a queue with the given fixed capacity
func NewQueue[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("pipeline: queue capacity must be positive: %d", capacity)
	}
	return &Queue[T]{slots: make([]T, capacity)}, nil
}

// Cap returns the fixed capacity of the queue
func (q *Queue[T]) Cap() int {
	return len(q.slots)
}

// Len returns a snapshot of the number of queued items
func (q *Queue[T]) Len() int {
	return int(q.tail.Load() - q.head.Load())
}

// Write attempts to move item into the next free slot. On WriteFull or
// WriteClosed the caller keeps ownership of item.
func (q *Queue[T]) Write(item T) WriteStatus {
	if q.closed.Load() {
		return WriteClosed
	}

	head := q.head.Load()
	tail := q.tail.Load()
	if tail-head == uint64(len(q.slots)) {
		return WriteFull
	}

	q.slots[tail%uint64(len(q.slots))] = item
	q.tail.Store(tail + 1)
	return WriteAccepted
}

// Read removes and returns the oldest item. ReadClosed is only reported once
// the queue is both closed and drained, so items written before Close are
// never lost to the reader.
func (q *Queue[T]) Read() (T, ReadStatus) {
	var zero T

	head := q.head.Load()
	if head == q.tail.Load() {
		if q.closed.Load() {
			return zero, ReadClosed
		}
		return zero, ReadEmpty
	}

	idx := head % uint64(len(q.slots))
	item := q.slots[idx]
	q.slots[idx] = zero // drop the queue's reference, ownership moves out
	q.head.Store(head + 1)
	return item, ReadOK
}

// Close marks the queue closed. Already-queued items remain readable;
// subsequent writes are rejected with WriteClosed. Close is idempotent.
func (q *Queue[T]) Close() {
	q.closed.Store(true)
}
