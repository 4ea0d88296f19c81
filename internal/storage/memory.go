/**
 * In-memory result sink
 *
 * Map-backed sink for tests and dev runs without a database. Keeps the
 * same overwrite-on-repersist semantics as the SQL sinks.
 */

package storage

import (
	"context"
	"sync"

	"github.com/opengovlk/docintel-worker/internal/job"
)

// MemorySink stores outcomes in process memory
type MemorySink struct {
	mu       sync.RWMutex
	outcomes map[string]*job.PipelineOutcome
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{outcomes: make(map[string]*job.PipelineOutcome)}
}

// Persist stores the outcome, overwriting any previous one for the id
func (m *MemorySink) Persist(_ context.Context, documentID string, outcome *job.PipelineOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[documentID] = outcome
	return nil
}

// Get returns the stored outcome for a document, if any
func (m *MemorySink) Get(documentID string) (*job.PipelineOutcome, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	outcome, ok := m.outcomes[documentID]
	return outcome, ok
}

// Len reports the number of stored outcomes
func (m *MemorySink) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.outcomes)
}
