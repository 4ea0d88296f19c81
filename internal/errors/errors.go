/**
 * Typed errors for the document intelligence pipeline
 *
 * The only failure surfaces are I/O: OCR extraction and result persistence.
 * Classification, field extraction, authenticity scoring and suspicion
 * evaluation are total functions and never produce errors. Validation
 * errors reject malformed jobs at enqueue and are never retried.
 */

package errors

import (
	"errors"
	"fmt"
)

// ExtractionKind classifies OCR extraction failures
type ExtractionKind string

const (
	ExtractionNotFound      ExtractionKind = "NotFound"
	ExtractionEngineFailure ExtractionKind = "EngineFailure"
	ExtractionTimeout       ExtractionKind = "Timeout"
)

// ExtractionError is a retryable failure of the external OCR engine
type ExtractionError struct {
	Kind    ExtractionKind
	FileRef string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction %s: %s (caused by: %v)", e.Kind, e.FileRef, e.Cause)
	}
	return fmt.Sprintf("extraction %s: %s", e.Kind, e.FileRef)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError reports a missing source file
func NewNotFoundError(fileRef string, cause error) *ExtractionError {
	return &ExtractionError{Kind: ExtractionNotFound, FileRef: fileRef, Cause: cause}
}

// NewEngineFailureError reports an OCR engine crash or malfunction
func NewEngineFailureError(fileRef string, cause error) *ExtractionError {
	return &ExtractionError{Kind: ExtractionEngineFailure, FileRef: fileRef, Cause: cause}
}

// NewTimeoutError reports an exceeded extraction deadline
func NewTimeoutError(fileRef string, cause error) *ExtractionError {
	return &ExtractionError{Kind: ExtractionTimeout, FileRef: fileRef, Cause: cause}
}

// AsExtractionError unwraps err into an *ExtractionError if possible
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// PersistenceError is a retryable failure of the result sink
type PersistenceError struct {
	DocumentID string
	Cause      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed for document %s: %v", e.DocumentID, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// NewPersistenceError reports a failed write of a pipeline outcome
func NewPersistenceError(documentID string, cause error) *PersistenceError {
	return &PersistenceError{DocumentID: documentID, Cause: cause}
}

// ValidationError rejects a structurally invalid job at submission.
// Never retried; surfaced immediately to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid job: %s %s", e.Field, e.Message)
}

// NewValidationError reports a malformed job submission
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
