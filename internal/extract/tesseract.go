/**
 * Tesseract OCR adapter
 *
 * Offline OCR through gosseract. A fresh engine client is created per call
 * so no state leaks between documents. Block-level confidences come from
 * the engine; when it reports no blocks the overall confidence falls back
 * to a text-quality heuristic.
 */

package extract

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	xerrors "github.com/opengovlk/docintel-worker/internal/errors"
	"github.com/opengovlk/docintel-worker/internal/job"
)

// DefaultTimeout bounds a single engine invocation
const DefaultTimeout = 30 * time.Second

// TesseractAdapter runs OCR against local Tesseract
type TesseractAdapter struct {
	timeout      time.Duration
	defaultLangs string
}

// NewTesseractAdapter creates an adapter with the given engine deadline
// and fallback language set (used when a job carries no hint).
func NewTesseractAdapter(timeout time.Duration, defaultLangs string) *TesseractAdapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if defaultLangs == "" {
		defaultLangs = "eng"
	}
	return &TesseractAdapter{timeout: timeout, defaultLangs: defaultLangs}
}

type engineOutput struct {
	result *job.ExtractionResult
	err    error
}

// Extract performs OCR on the referenced file. languageHint is a set of
// ISO-639 codes joined by "+" (e.g. "sin+eng").
func (a *TesseractAdapter) Extract(ctx context.Context, fileRef, languageHint string) (*job.ExtractionResult, error) {
	if _, err := os.Stat(fileRef); err != nil {
		return nil, xerrors.NewNotFoundError(fileRef, err)
	}

	langs := languageHint
	if langs == "" {
		langs = a.defaultLangs
	}

	// the engine call is not interruptible; run it aside and abandon it
	// once the deadline passes
	done := make(chan engineOutput, 1)
	go func() {
		result, err := runEngine(fileRef, langs)
		done <- engineOutput{result: result, err: err}
	}()

	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, xerrors.NewEngineFailureError(fileRef, out.err)
		}
		return out.result, nil
	case <-timer.C:
		return nil, xerrors.NewTimeoutError(fileRef, context.DeadlineExceeded)
	case <-ctx.Done():
		return nil, xerrors.NewTimeoutError(fileRef, ctx.Err())
	}
}

func runEngine(fileRef, langs string) (*job.ExtractionResult, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(langs, "+")...); err != nil {
		return nil, err
	}
	if err := client.SetImage(fileRef); err != nil {
		return nil, err
	}

	text, err := client.Text()
	if err != nil {
		return nil, err
	}

	result := &job.ExtractionResult{Text: text}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err == nil && len(boxes) > 0 {
		sum := 0.0
		for _, box := range boxes {
			conf := box.Confidence / 100.0
			result.Blocks = append(result.Blocks, job.TextBlock{Text: box.Word, Confidence: conf})
			sum += conf
		}
		result.Confidence = sum / float64(len(boxes))
	} else {
		result.Confidence = heuristicConfidence(text)
	}

	return result, nil
}

// heuristicConfidence estimates confidence from text quality when the
// engine reports no block-level scores
func heuristicConfidence(text string) float64 {
	confidence := 0.5

	if len(text) > 1000 {
		confidence += 0.1
	}
	if len(text) > 5000 {
		confidence += 0.1
	}

	words := strings.Fields(text)
	if len(words) > 100 {
		confidence += 0.1
	}

	alphaCount := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alphaCount++
		}
	}
	if len(text) > 0 {
		alphaRatio := float64(alphaCount) / float64(len(text))
		if alphaRatio > 0.5 && alphaRatio < 0.9 {
			confidence += 0.1
		}
	}

	if confidence > 0.85 {
		confidence = 0.85
	}

	return confidence
}
