/**
 * Job Queue boundary
 *
 * FIFO queue of pending extraction jobs. Dequeue is the single hand-off
 * point of exclusive ownership: once a job is returned the queue holds no
 * reference to it until the orchestrator explicitly re-enqueues a retry.
 * The queue performs no deduplication; duplicate submission is a caller
 * concern.
 */

package queue

import (
	"context"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// Queue holds pending jobs in enqueue order and hands each to exactly one
// consumer.
type Queue interface {
	// Enqueue accepts a job, or rejects it with *errors.ValidationError
	// when it fails structural validation (missing file reference).
	// Never blocks.
	Enqueue(ctx context.Context, j *job.Job) error

	// Dequeue removes and returns the oldest job, or (nil, nil) when the
	// queue is empty. Atomic: a job is handed to exactly one caller.
	Dequeue(ctx context.Context) (*job.Job, error)

	// Len reports the number of pending jobs
	Len(ctx context.Context) (int, error)

	// Snapshot returns the pending jobs in enqueue order without removing
	// them, for observability
	Snapshot(ctx context.Context) ([]job.Job, error)

	// Remove drops a still-pending job, reporting whether it was found.
	// Supports cancellation before dequeue; a job already handed to a
	// worker is not affected.
	Remove(ctx context.Context, jobID string) (bool, error)
}
