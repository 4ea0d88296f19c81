/**
 * Job submission and status boundary
 *
 * The in-process API consumed by the upload-handling collaborator:
 * Submit validates and enqueues a new job, GetStatus reads its last
 * recorded state, Cancel drops a job that is still pending in the queue.
 */

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
	"github.com/opengovlk/docintel-worker/internal/logging"
	"github.com/opengovlk/docintel-worker/internal/queue"
)

// ErrNotFound is returned when a job id is unknown
var ErrNotFound = fmt.Errorf("job not found")

// SubmitRequest carries a new extraction job
type SubmitRequest struct {
	FileRef      string
	LanguageHint string
	DeclaredType string
	Metadata     map[string]string
}

// StatusResponse is the caller-visible view of a job
type StatusResponse struct {
	Status        job.Status           `json:"status"`
	Attempts      int                  `json:"attempts"`
	Result        *job.PipelineOutcome `json:"result,omitempty"`
	FailureReason string               `json:"failureReason,omitempty"`
}

// Service exposes the job submission boundary
type Service struct {
	queue queue.Queue
	store *job.Store
	log   *logging.Logger
}

// NewService creates the boundary around a queue and status store
func NewService(q queue.Queue, store *job.Store, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewLogger("service")
	}
	return &Service{queue: q, store: store, log: log}
}

// Submit validates the request, creates a pending job and enqueues it.
// Returns the assigned job id, or *errors.ValidationError for malformed
// requests.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if req.FileRef == "" {
		return "", xerrors.NewValidationError("fileRef", "is required")
	}

	now := time.Now().UTC()
	j := &job.Job{
		ID:           uuid.NewString(),
		FileRef:      req.FileRef,
		LanguageHint: req.LanguageHint,
		DeclaredType: req.DeclaredType,
		Metadata:     req.Metadata,
		Status:       job.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.store.Set(j)
	if err := s.queue.Enqueue(ctx, j); err != nil {
		s.store.Mutate(j.ID, func(stored *job.Job) {
			stored.Status = job.StatusFailed
			stored.FailureReason = fmt.Sprintf("enqueue: %v", err)
		})
		return "", err
	}

	s.log.Info("job submitted", "jobId", j.ID, "declaredType", req.DeclaredType)
	return j.ID, nil
}

// GetStatus returns the job's last recorded state
func (s *Service) GetStatus(_ context.Context, jobID string) (*StatusResponse, error) {
	j, ok := s.store.Get(jobID)
	if !ok {
		return nil, ErrNotFound
	}
	return &StatusResponse{
		Status:        j.Status,
		Attempts:      j.Attempts,
		Result:        j.Result,
		FailureReason: j.FailureReason,
	}, nil
}

// Cancel drops a job that is still pending in the queue. Jobs already
// handed to a worker run to completion; cancelling them is not honored.
func (s *Service) Cancel(ctx context.Context, jobID string) error {
	if _, ok := s.store.Get(jobID); !ok {
		return ErrNotFound
	}

	removed, err := s.queue.Remove(ctx, jobID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("job %s is no longer pending", jobID)
	}

	s.store.Mutate(jobID, func(stored *job.Job) {
		stored.Status = job.StatusFailed
		stored.FailureReason = "cancelled before processing"
		stored.UpdatedAt = time.Now().UTC()
	})

	s.log.Info("job cancelled", "jobId", jobID)
	return nil
}

// QueueDepth reports the number of jobs waiting in the queue
func (s *Service) QueueDepth(ctx context.Context) (int, error) {
	return s.queue.Len(ctx)
}
