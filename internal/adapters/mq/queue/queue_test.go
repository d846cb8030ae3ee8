package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/jungle/internal/domain/dedupe"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, Job{Kind: KindLines, Round: 1}); err != nil {
		t.Fatalf("expected enqueue to succeed: %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	j := <-q.Dequeue(ctx)
	if j.Kind != KindLines || j.Round != 1 {
		t.Errorf("unexpected job %+v", j)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Coalescing(t *testing.T) {
	pending := dedupe.NewInMemoryDeduper()
	q := NewInMemoryQueue(WithCapacity(4), WithDeduper(pending))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := q.Enqueue(ctx, Job{Kind: KindScores, Round: 2}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if l := q.Len(ctx); l != 1 {
		t.Fatalf("expected duplicates to merge into 1 job, got %d", l)
	}
	if err := q.Enqueue(ctx, Job{Kind: KindLines, Round: 2}); err != nil {
		t.Fatalf("enqueue lines: %v", err)
	}

	ch := q.Dequeue(ctx)
	for _, want := range []string{"scores:2", "lines:2"} {
		if got := (<-ch).Key(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}

	// Once picked up, the same job can be scheduled again.
	deadline := time.Now().Add(time.Second)
	for pending.Size() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("pending marks were never released")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := q.Enqueue(ctx, Job{Kind: KindScores, Round: 2}); err != nil {
		t.Fatalf("re-enqueue: %v", err)
	}
	select {
	case j := <-ch:
		if j.Key() != "scores:2" {
			t.Errorf("expected scores:2 again, got %s", j.Key())
		}
	case <-time.After(time.Second):
		t.Fatal("re-scheduled job was not delivered")
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	_ = q.Enqueue(ctx, Job{Kind: KindLines, Round: 1})
	_ = q.Enqueue(ctx, Job{Kind: KindLines, Round: 2})

	err := q.Enqueue(ctx, Job{Kind: KindLines, Round: 3})
	if !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}

	// The rejected job must not stay marked as pending.
	<-q.Dequeue(ctx)
	deadline := time.Now().Add(time.Second)
	for {
		err = q.Enqueue(ctx, Job{Kind: KindLines, Round: 3})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected room after dequeue, got %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithDeduper(dedupe.NewInMemoryDeduper()))
	ctx := context.Background()

	_ = q.Enqueue(ctx, Job{Kind: KindScores, Round: 1})
	if err := q.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if err := q.Enqueue(ctx, Job{Kind: KindScores, Round: 2}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var got []Job
	for j := range q.Dequeue(ctx) {
		got = append(got, j)
	}
	if len(got) != 1 {
		t.Errorf("expected the queued job to drain, got %d", len(got))
	}
}
