/**
 * Text Extraction Adapter boundary
 *
 * Wraps an external OCR capability: file reference plus language hint in,
 * raw text with per-block confidence out. Implementations surface the
 * engine's confidence unmodified; thresholding belongs to suspicion
 * evaluation, not here.
 */

package extract

import (
	"context"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// Adapter converts a file reference and language hint into raw OCR output.
// Failures are typed *errors.ExtractionError values with kind NotFound,
// EngineFailure or Timeout; the call must return after a bounded deadline
// rather than hang.
type Adapter interface {
	Extract(ctx context.Context, fileRef, languageHint string) (*job.ExtractionResult, error)
}
