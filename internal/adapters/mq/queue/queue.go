// Package queue carries recalculation jobs from request handlers to workers.
package queue

import (
	"context"
	"strconv"
	"sync"

	"github.com/okian/jungle/internal/domain/dedupe"
	"github.com/okian/jungle/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Kind names the recalculation a job asks for.
type Kind string

const (
	// KindLines regenerates a round's lines from its predictions.
	KindLines Kind = "lines"
	// KindScores recalculates a round's scores.
	KindScores Kind = "scores"
)

// Job is one unit of recalculation work.
type Job struct {
	Kind  Kind
	Round int
}

// Key identifies jobs that can be merged while pending.
func (j Job) Key() string {
	return string(j.Kind) + ":" + strconv.Itoa(j.Round)
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue schedules j. A job identical to one still pending is merged
	// into it and reported as success.
	Enqueue(ctx context.Context, j Job) error

	// Dequeue returns a channel of jobs that is closed with the queue.
	Dequeue(ctx context.Context) <-chan Job

	Len(ctx context.Context) int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int
	pending  dedupe.Deduper

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.pending == nil {
		q.pending = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(q.capacity))
	}
	q.jobs = make(chan Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.updateSize()
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return ErrClosed
	}
	if q.pending.SeenAndRecord(ctx, j.Key()) {
		metrics.RecordQueueCoalesced()
		return nil
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		q.updateSize()
		return nil
	case <-ctx.Done():
		q.pending.Unrecord(ctx, j.Key())
		metrics.RecordQueueEnqueueError()
		return ctx.Err()
	default:
		q.pending.Unrecord(ctx, j.Key())
		metrics.RecordQueueEnqueueError()
		return ErrFull
	}
}

// Dequeue forwards jobs to the returned channel. A job's pending mark is
// released once a consumer has received it, so later requests schedule a
// fresh run against newer data.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				q.pending.Unrecord(ctx, j.Key())
				metrics.RecordQueueDequeue()
				q.updateSize()
			case <-ctx.Done():
				q.pending.Unrecord(ctx, j.Key())
				return
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	return q.updateSize()
}

func (q *InMemoryQueue) updateSize() int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

// Close stops accepting jobs. Jobs already queued are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
