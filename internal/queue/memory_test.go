package queue_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
	"github.com/opengovlk/docintel-worker/internal/queue"
)

func newJob(id string) *job.Job {
	return &job.Job{ID: id, FileRef: "/uploads/" + id + ".png", Status: job.StatusPending}
}

func TestMemoryQueue_FIFOOrdering(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()

	for i := 0; i < 5; i++ {
		if err := q.Enqueue(ctx, newJob(fmt.Sprintf("job-%d", i))); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	for i := 0; i < 5; i++ {
		j, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue failed: %v", err)
		}
		want := fmt.Sprintf("job-%d", i)
		if j == nil || j.ID != want {
			t.Fatalf("expected %s, got %+v", want, j)
		}
	}
}

func TestMemoryQueue_DequeueEmpty(t *testing.T) {
	q := queue.NewMemoryQueue()

	j, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j != nil {
		t.Fatalf("expected nil on empty queue, got %+v", j)
	}
}

func TestMemoryQueue_RejectsMissingFileRef(t *testing.T) {
	q := queue.NewMemoryQueue()

	err := q.Enqueue(context.Background(), &job.Job{ID: "j1"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *xerrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	if n, _ := q.Len(context.Background()); n != 0 {
		t.Fatalf("rejected job must not be enqueued, len=%d", n)
	}
}

func TestMemoryQueue_SnapshotNonDestructive(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()

	q.Enqueue(ctx, newJob("a"))
	q.Enqueue(ctx, newJob("b"))

	snap, err := q.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if len(snap) != 2 || snap[0].ID != "a" || snap[1].ID != "b" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	if n, _ := q.Len(ctx); n != 2 {
		t.Fatalf("snapshot must not consume jobs, len=%d", n)
	}
}

func TestMemoryQueue_Remove(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()

	q.Enqueue(ctx, newJob("a"))
	q.Enqueue(ctx, newJob("b"))
	q.Enqueue(ctx, newJob("c"))

	removed, err := q.Remove(ctx, "b")
	if err != nil || !removed {
		t.Fatalf("expected removal, got removed=%v err=%v", removed, err)
	}

	removed, _ = q.Remove(ctx, "missing")
	if removed {
		t.Fatal("unknown id must not report removal")
	}

	first, _ := q.Dequeue(ctx)
	second, _ := q.Dequeue(ctx)
	if first.ID != "a" || second.ID != "c" {
		t.Fatalf("unexpected order after removal: %s, %s", first.ID, second.ID)
	}
}

func TestMemoryQueue_ConcurrentDequeueDisjoint(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()

	const total = 100
	for i := 0; i < total; i++ {
		if err := q.Enqueue(ctx, newJob(fmt.Sprintf("job-%03d", i))); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	var mu sync.Mutex
	starts := make(map[string]int)

	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				j, err := q.Dequeue(ctx)
				if err != nil {
					t.Errorf("dequeue failed: %v", err)
					return
				}
				if j == nil {
					return
				}
				mu.Lock()
				starts[j.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(starts) != total {
		t.Fatalf("expected %d distinct jobs processed, got %d", total, len(starts))
	}
	for id, n := range starts {
		if n != 1 {
			t.Errorf("job %s dequeued %d times", id, n)
		}
	}
}
