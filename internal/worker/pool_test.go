package worker_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/opengovlk/docintel-worker/internal/job"
	"github.com/opengovlk/docintel-worker/internal/pipeline"
	"github.com/opengovlk/docintel-worker/internal/queue"
	"github.com/opengovlk/docintel-worker/internal/storage"
	"github.com/opengovlk/docintel-worker/internal/worker"
)

type countingExtractor struct {
	mu     sync.Mutex
	starts map[string]int
}

func (e *countingExtractor) Extract(_ context.Context, fileRef, _ string) (*job.ExtractionResult, error) {
	e.mu.Lock()
	e.starts[fileRef]++
	e.mu.Unlock()
	return &job.ExtractionResult{Text: "Name: JOHN DOE official seal watermark document", Confidence: 0.9}, nil
}

// blockingExtractor signals when extraction begins and then waits out its
// delay, aborting early if the passed context is cancelled
type blockingExtractor struct {
	started chan struct{}
	delay   time.Duration
}

func (e *blockingExtractor) Extract(ctx context.Context, _, _ string) (*job.ExtractionResult, error) {
	close(e.started)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(e.delay):
		return &job.ExtractionResult{Text: "Name: JOHN DOE official seal watermark document", Confidence: 0.9}, nil
	}
}

func TestPool_StopLetsInFlightJobRunToCompletion(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()
	store := job.NewStore()
	extractor := &blockingExtractor{started: make(chan struct{}), delay: 150 * time.Millisecond}

	orch, err := pipeline.NewOrchestrator(pipeline.Config{
		Queue:     q,
		Store:     store,
		Extractor: extractor,
		Sink:      storage.NewMemorySink(),
	})
	if err != nil {
		t.Fatalf("failed to build orchestrator: %v", err)
	}

	j := &job.Job{ID: "j1", FileRef: "/uploads/doc.png", Status: job.StatusPending}
	store.Set(j)
	if err := q.Enqueue(ctx, j); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	pool, err := worker.NewPool(worker.PoolConfig{
		Queue:        q,
		Orchestrator: orch,
		Workers:      1,
		PollInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to build pool: %v", err)
	}

	pool.Start()
	<-extractor.started

	// Stop blocks until the worker returns, which requires the dequeued
	// job to finish its pipeline first
	pool.Stop()

	stored, ok := store.Get("j1")
	if !ok {
		t.Fatal("job missing from store")
	}
	if stored.Status != job.StatusCompleted {
		t.Fatalf("in-flight job must finish despite shutdown, got %s (%s)",
			stored.Status, stored.FailureReason)
	}
	if stored.Attempts != 1 {
		t.Fatalf("shutdown must not burn an attempt, got %d", stored.Attempts)
	}
}

func TestPool_ProcessesEveryJobExactlyOnce(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()
	store := job.NewStore()
	extractor := &countingExtractor{starts: make(map[string]int)}

	orch, err := pipeline.NewOrchestrator(pipeline.Config{
		Queue:     q,
		Store:     store,
		Extractor: extractor,
		Sink:      storage.NewMemorySink(),
	})
	if err != nil {
		t.Fatalf("failed to build orchestrator: %v", err)
	}

	const total = 100
	ids := make([]string, 0, total)
	for i := 0; i < total; i++ {
		j := &job.Job{
			ID:      fmt.Sprintf("job-%03d", i),
			FileRef: fmt.Sprintf("/uploads/doc-%03d.png", i),
			Status:  job.StatusPending,
		}
		store.Set(j)
		if err := q.Enqueue(ctx, j); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
		ids = append(ids, j.ID)
	}

	pool, err := worker.NewPool(worker.PoolConfig{
		Queue:        q,
		Orchestrator: orch,
		Workers:      2,
		PollInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("failed to build pool: %v", err)
	}

	pool.Start()
	defer pool.Stop()

	deadline := time.After(10 * time.Second)
	for {
		done := 0
		for _, id := range ids {
			if j, ok := store.Get(id); ok && j.Terminal() {
				done++
			}
		}
		if done == total {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timed out with %d/%d jobs terminal", done, total)
		case <-time.After(20 * time.Millisecond):
		}
	}

	for _, id := range ids {
		j, _ := store.Get(id)
		if j.Status != job.StatusCompleted {
			t.Errorf("job %s: expected completed, got %s (%s)", id, j.Status, j.FailureReason)
		}
	}

	extractor.mu.Lock()
	defer extractor.mu.Unlock()
	if len(extractor.starts) != total {
		t.Fatalf("expected %d distinct extractions, got %d", total, len(extractor.starts))
	}
	for fileRef, n := range extractor.starts {
		if n != 1 {
			t.Errorf("%s extracted %d times, want exactly 1", fileRef, n)
		}
	}
}
