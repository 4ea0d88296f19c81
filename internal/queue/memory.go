/**
 * In-memory job queue
 *
 * Mutex-guarded FIFO slice. The default backend for single-process
 * deployments and tests.
 */

package queue

import (
	"context"
	"sync"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
)

// MemoryQueue is a concurrency-safe in-process FIFO queue
type MemoryQueue struct {
	mu   sync.Mutex
	jobs []*job.Job
}

// NewMemoryQueue creates an empty in-memory queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends a job. Rejects jobs without a file reference.
func (q *MemoryQueue) Enqueue(_ context.Context, j *job.Job) error {
	if j == nil || j.FileRef == "" {
		return xerrors.NewValidationError("fileRef", "is required")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, j)
	return nil
}

// Dequeue removes and returns the oldest job, or nil when empty
func (q *MemoryQueue) Dequeue(_ context.Context) (*job.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return nil, nil
	}

	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	return j, nil
}

// Len reports the number of pending jobs
func (q *MemoryQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs), nil
}

// Snapshot copies the pending jobs in enqueue order
func (q *MemoryQueue) Snapshot(_ context.Context) ([]job.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]job.Job, len(q.jobs))
	for i, j := range q.jobs {
		out[i] = *j
	}
	return out, nil
}

// Remove drops a pending job by id
func (q *MemoryQueue) Remove(_ context.Context, jobID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, j := range q.jobs {
		if j.ID == jobID {
			q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
