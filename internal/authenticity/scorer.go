/**
 * Authenticity Scorer
 *
 * Scores raw text against a fixed set of trust-indicator phrases (seals,
 * watermarks, registration numbers and similar). score is the fraction of
 * markers present; a document is considered authentic once the matched
 * count reaches the threshold. Total and deterministic.
 */

package authenticity

import (
	"strings"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// DefaultThreshold is the matched-marker count required for authenticity
const DefaultThreshold = 2

var defaultMarkers = []string{
	"official seal",
	"watermark",
	"government of sri lanka",
	"registration number",
	"registrar general",
	"notary",
	"barcode",
	"qr code",
	"signature",
	"certified copy",
}

// Scorer counts authenticity markers present in document text
type Scorer struct {
	markers   []string
	threshold int
}

// NewScorer returns a scorer with the default marker set and threshold
func NewScorer() *Scorer {
	return NewScorerWith(defaultMarkers, DefaultThreshold)
}

// NewScorerWith builds a scorer from a custom marker list and threshold
func NewScorerWith(markers []string, threshold int) *Scorer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return &Scorer{markers: lowered, threshold: threshold}
}

// Score counts distinct markers present as substrings of the lower-cased
// text. Each marker counts once regardless of repetition.
func (s *Scorer) Score(text string) job.AuthenticityVerdict {
	lowered := strings.ToLower(text)

	var matched []string
	for _, marker := range s.markers {
		if strings.Contains(lowered, marker) {
			matched = append(matched, marker)
		}
	}

	verdict := job.AuthenticityVerdict{
		IsAuthentic:    len(matched) >= s.threshold,
		MatchedMarkers: matched,
	}
	if len(s.markers) > 0 {
		verdict.Score = float64(len(matched)) / float64(len(s.markers))
	}

	return verdict
}
