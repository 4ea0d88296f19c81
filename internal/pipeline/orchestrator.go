/**
 * Pipeline Orchestrator
 *
 * Runs the five-stage pipeline per job: extract, classify, extract fields,
 * score authenticity, evaluate suspicion, then persists the outcome. Owns
 * the job state machine (Pending -> Processing -> Completed|Failed) and
 * the retry policy: a failed attempt below the ceiling re-enqueues the job
 * as Pending, and a retry re-runs the whole pipeline since every stage
 * after extraction is cheap and deterministic.
 */

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/opengovlk/docintel-worker/internal/authenticity"
	"github.com/opengovlk/docintel-worker/internal/classify"
	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/extract"
	"github.com/opengovlk/docintel-worker/internal/fields"
	"github.com/opengovlk/docintel-worker/internal/job"
	"github.com/opengovlk/docintel-worker/internal/logging"
	"github.com/opengovlk/docintel-worker/internal/queue"
	"github.com/opengovlk/docintel-worker/internal/storage"
	"github.com/opengovlk/docintel-worker/internal/suspicion"
)

// DefaultMaxAttempts is the retry ceiling per job
const DefaultMaxAttempts = 3

// Config wires the orchestrator's collaborators
type Config struct {
	Queue      queue.Queue
	Store      *job.Store
	Extractor  extract.Adapter
	Classifier *classify.Classifier
	Registry   *fields.Registry
	Scorer     *authenticity.Scorer

	// MaxAttempts caps processing attempts per job (default 3)
	MaxAttempts int
	// MinConfidence is the OCR confidence floor for suspicion flagging.
	// Nil means the default floor; an explicit 0 disables the rule.
	MinConfidence *float64
	// RequiredFields resolves the expected schema for a document type;
	// defaults to the built-in schemas
	RequiredFields func(docType string) []string

	Sink   storage.ResultSink
	Logger *logging.Logger
}

// Orchestrator coordinates the pipeline stages for one job at a time
type Orchestrator struct {
	cfg Config
}

// NewOrchestrator validates wiring and returns an orchestrator
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("queue is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("job store is required")
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("result sink is required")
	}
	if cfg.Classifier == nil {
		cfg.Classifier = classify.NewDefaultClassifier()
	}
	if cfg.Registry == nil {
		cfg.Registry = fields.NewDefaultRegistry()
	}
	if cfg.Scorer == nil {
		cfg.Scorer = authenticity.NewScorer()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MinConfidence == nil {
		floor := suspicion.DefaultMinConfidence
		cfg.MinConfidence = &floor
	}
	if cfg.RequiredFields == nil {
		cfg.RequiredFields = fields.RequiredFields
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewLogger("pipeline")
	}
	return &Orchestrator{cfg: cfg}, nil
}

// Process runs one attempt of the pipeline for a dequeued job. The caller
// holds exclusive ownership of the job until this returns.
func (o *Orchestrator) Process(ctx context.Context, j *job.Job) {
	log := o.cfg.Logger.WithJob(j.ID)
	start := time.Now()

	j.Attempts++
	j.Status = job.StatusProcessing
	o.touch(j)

	log.Info("processing started", "attempt", j.Attempts, "fileRef", j.FileRef)

	extraction, err := o.cfg.Extractor.Extract(ctx, j.FileRef, j.LanguageHint)
	if err != nil {
		kind := xerrors.ExtractionEngineFailure
		if ee, ok := xerrors.AsExtractionError(err); ok {
			kind = ee.Kind
		}
		log.Warn("extraction failed", "kind", kind, "error", err)
		o.fail(ctx, j, fmt.Sprintf("extraction: %s", kind))
		return
	}

	classification := o.cfg.Classifier.Classify(extraction.Text)

	// the caller's declared type is authoritative intent; the detected
	// type stays in the outcome for audit
	docType := classification.DetectedType
	if j.DeclaredType != "" {
		docType = j.DeclaredType
	}

	fieldMap := o.cfg.Registry.Extract(docType, extraction.Text)
	verdict := o.cfg.Scorer.Score(extraction.Text)

	outcome := &job.PipelineOutcome{
		DocumentType:   docType,
		Extraction:     extraction,
		Classification: classification,
		Fields:         fieldMap,
		Authenticity:   verdict,
	}
	outcome.Suspicion = suspicion.Evaluate(outcome, suspicion.Options{
		MinConfidence:  *o.cfg.MinConfidence,
		RequiredFields: o.cfg.RequiredFields(docType),
	})

	if err := o.cfg.Sink.Persist(ctx, j.DocumentID(), outcome); err != nil {
		log.Warn("persistence failed", "error", err)
		o.fail(ctx, j, fmt.Sprintf("persist: %v", err))
		return
	}

	j.Status = job.StatusCompleted
	j.Result = outcome
	j.FailureReason = ""
	o.touch(j)

	log.Info("processing completed",
		"durationMs", time.Since(start).Milliseconds(),
		"documentType", docType,
		"detectedType", classification.DetectedType,
		"suspicious", outcome.Suspicion.IsSuspicious,
	)
}

// fail applies the retry policy: below the ceiling the job goes back to
// the queue as Pending, otherwise it lands in terminal Failed.
func (o *Orchestrator) fail(ctx context.Context, j *job.Job, reason string) {
	log := o.cfg.Logger.WithJob(j.ID)

	if j.Attempts < o.cfg.MaxAttempts {
		j.Status = job.StatusPending
		j.FailureReason = ""
		o.touch(j)

		if err := o.cfg.Queue.Enqueue(ctx, j); err != nil {
			log.Error("re-enqueue failed", "error", err)
			j.Status = job.StatusFailed
			j.FailureReason = reason
			o.touch(j)
			return
		}

		log.Info("re-enqueued for retry", "attempt", j.Attempts, "max", o.cfg.MaxAttempts, "reason", reason)
		return
	}

	j.Status = job.StatusFailed
	j.FailureReason = reason
	o.touch(j)

	log.Error("job failed terminally", "attempts", j.Attempts, "reason", reason)
}

func (o *Orchestrator) touch(j *job.Job) {
	j.UpdatedAt = time.Now().UTC()
	o.cfg.Store.Set(j)
}
