/**
 * Job Model for Document Intelligence Worker
 *
 * A Job is one unit of document-extraction work. It is owned by the queue
 * until dequeued, then by exactly one worker until it reaches a terminal
 * state (Completed, or Failed with retries exhausted).
 */

package job

import (
	"time"
)

// Status represents the lifecycle state of a Job
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job represents a document-extraction work unit
type Job struct {
	ID           string            `json:"id"`
	FileRef      string            `json:"fileRef"`
	LanguageHint string            `json:"languageHint,omitempty"`
	DeclaredType string            `json:"declaredType,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`

	Status        Status           `json:"status"`
	Attempts      int              `json:"attempts"`
	Result        *PipelineOutcome `json:"result,omitempty"`
	FailureReason string           `json:"failureReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Terminal reports whether the job has reached a terminal state
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// DocumentID resolves the external document record this job belongs to.
// Falls back to the job id when the caller supplied no record id.
func (j *Job) DocumentID() string {
	if id, ok := j.Metadata["document_id"]; ok && id != "" {
		return id
	}
	return j.ID
}

// TextBlock is one sub-region of OCR output with its own confidence
type TextBlock struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ExtractionResult is the raw OCR output for one job
type ExtractionResult struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	Blocks     []TextBlock `json:"blocks,omitempty"`
}

// ClassificationResult is the document-type guess derived from raw text.
// DetectedType is "unknown" when no type reached its marker threshold.
type ClassificationResult struct {
	DetectedType string         `json:"detectedType"`
	Score        int            `json:"score"`
	HitCounts    map[string]int `json:"perTypeHitCounts,omitempty"`
}

// FieldMap holds extracted structured fields. Absence of a key means the
// field was not found, never an empty string.
type FieldMap map[string]string

// AuthenticityVerdict is the trust-marker scoring outcome
type AuthenticityVerdict struct {
	IsAuthentic    bool     `json:"isAuthentic"`
	Score          float64  `json:"score"`
	MatchedMarkers []string `json:"matchedMarkers,omitempty"`
}

// SuspicionVerdict is the aggregated decision that a document needs review
type SuspicionVerdict struct {
	IsSuspicious bool     `json:"isSuspicious"`
	Reasons      []string `json:"reasons,omitempty"`
}

// PipelineOutcome aggregates all stage results for a completed job.
// DocumentType is the type that drove field extraction: the caller-declared
// type when supplied, otherwise the classifier's detected type.
type PipelineOutcome struct {
	DocumentType   string               `json:"documentType"`
	Extraction     *ExtractionResult    `json:"extraction,omitempty"`
	Classification ClassificationResult `json:"classification"`
	Fields         FieldMap             `json:"fields,omitempty"`
	Authenticity   AuthenticityVerdict  `json:"authenticity"`
	Suspicion      SuspicionVerdict     `json:"suspicion"`
}
