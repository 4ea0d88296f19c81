/**
 * Suspicion Evaluator
 *
 * Combines OCR confidence, missing required fields, text-noise ratio and
 * the authenticity outcome into a single verdict. Rules are evaluated
 * independently and their reasons accumulate in rule order, so identical
 * inputs always yield identical reasons. Total and deterministic.
 */

package suspicion

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// DefaultMinConfidence is the OCR confidence floor below which a document
// is flagged
const DefaultMinConfidence = 0.6

// noiseRatioFloor is the minimum share of alphabetic tokens among tokens
// longer than 2 characters before text is considered gibberish
const noiseRatioFloor = 0.5

// Options controls evaluation for one document. A MinConfidence of 0
// disables the low-confidence rule; no confidence is below zero.
type Options struct {
	MinConfidence  float64
	RequiredFields []string
}

// DefaultOptions returns evaluation options with the default confidence
// floor and no required fields
func DefaultOptions() Options {
	return Options{MinConfidence: DefaultMinConfidence}
}

// Evaluate inspects a pipeline outcome and returns the suspicion verdict.
// The low-confidence rule applies only when extraction ran.
func Evaluate(outcome *job.PipelineOutcome, opts Options) job.SuspicionVerdict {
	var reasons []string

	if outcome.Extraction != nil && outcome.Extraction.Confidence < opts.MinConfidence {
		reasons = append(reasons, fmt.Sprintf("low OCR confidence: %.2f", outcome.Extraction.Confidence))
	}

	for _, name := range opts.RequiredFields {
		if _, ok := outcome.Fields[name]; !ok {
			reasons = append(reasons, fmt.Sprintf("missing required field: %s", name))
		}
	}

	var text string
	if outcome.Extraction != nil {
		text = outcome.Extraction.Text
	}
	if noisy, applicable := textLooksNoisy(text); applicable && noisy {
		reasons = append(reasons, "text appears noisy or gibberish")
	}

	if !outcome.Authenticity.IsAuthentic {
		reasons = append(reasons, "failed authenticity validation")
	}

	return job.SuspicionVerdict{
		IsSuspicious: len(reasons) > 0,
		Reasons:      reasons,
	}
}

// textLooksNoisy reports whether the alphabetic-token ratio falls below
// the floor. The check is skipped (applicable=false) when no token is
// longer than 2 characters.
func textLooksNoisy(text string) (noisy bool, applicable bool) {
	qualifying := 0
	alphabetic := 0

	for _, token := range strings.Fields(text) {
		if len(token) <= 2 {
			continue
		}
		qualifying++
		if isAlphabetic(token) {
			alphabetic++
		}
	}

	if qualifying == 0 {
		return false, false
	}

	ratio := float64(alphabetic) / float64(qualifying)
	return ratio < noiseRatioFloor, true
}

func isAlphabetic(token string) bool {
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
