// Package queue buffers match reports between ingestion and the workers.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/plains/internal/domain/model"
	"github.com/okian/plains/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Report is the payload type flowing through the queue.
type Report = model.MatchReport

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a report without blocking. It returns ErrFull when the
	// queue is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, r Report) error

	// Dequeue returns a channel that receives reports as they become available.
	// The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Report

	// Len returns the current number of queued reports.
	Len(ctx context.Context) int

	// Cap returns the queue capacity.
	Cap() int

	// Close stops accepting reports. Buffered reports are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	reports  chan Report
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.reports = make(chan Report, q.capacity)
	metrics.UpdateQueue(0, q.capacity)
	return q
}

// Enqueue adds a report to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Report) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordError("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordError("queue", "context_cancelled")
		return fmt.Errorf("enqueue %s: %w", r.ReportID, err)
	}

	select {
	case q.reports <- r:
		metrics.UpdateQueue(len(q.reports), q.capacity)
		return nil
	default:
		metrics.RecordError("queue", "queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive reports as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Report {
	out := make(chan Report)
	go func() {
		defer close(out)
		for r := range q.reports {
			select {
			case out <- r:
				metrics.UpdateQueue(len(q.reports), q.capacity)
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued reports.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.reports)
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.reports)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
