/**
 * Job status store
 *
 * Concurrent map of job snapshots keyed by id. Together with the queue it
 * is the only state shared between workers; everything stored or returned
 * is a copy, so a worker mutating its own job never races a status query.
 */

package job

import (
	"sync"
)

// Store tracks the latest observed state of every submitted job
type Store struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{jobs: make(map[string]Job)}
}

// Set records a snapshot of the job's current state
func (s *Store) Set(j *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = *j
}

// Get returns a copy of the job's last recorded state
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	return j, ok
}

// Mutate applies fn to the stored job under the lock, reporting whether
// the job exists
func (s *Store) Mutate(id string, fn func(*Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	fn(&j)
	s.jobs[id] = j
	return true
}

// Len reports the number of tracked jobs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
