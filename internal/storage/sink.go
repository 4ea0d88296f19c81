/**
 * Result Sink boundary
 *
 * Persists the final structured outcome against the originating document
 * record. Persisting the same document id twice overwrites rather than
 * duplicates, so retried pipelines stay idempotent.
 */

package storage

import (
	"context"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// ResultSink writes pipeline outcomes keyed by document record id
type ResultSink interface {
	Persist(ctx context.Context, documentID string, outcome *job.PipelineOutcome) error
}

// sanitizeConfidence rounds confidence to 4 decimal places and clamps it
// to [0,1]; float64 representations like 0.9632000000000001 otherwise
// trip bounded-precision database columns.
func sanitizeConfidence(confidence float64) float64 {
	if confidence < 0.0 {
		return 0.0
	}
	if confidence > 1.0 {
		return 1.0
	}
	return float64(int(confidence*10000+0.5)) / 10000
}
