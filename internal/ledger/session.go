package ledger

import "sync"

// ProcessedSet tracks jobs completed during the current process lifetime.
// It is the fast-path short-circuit in front of the durable ledger and the
// only deduplication mechanism when no backend is configured.
type ProcessedSet struct {
	mu   sync.Mutex
	jobs map[JobKey]struct{}
}

// NewProcessedSet returns an empty session-local set.
func NewProcessedSet() *ProcessedSet {
	return &ProcessedSet{jobs: make(map[JobKey]struct{})}
}

// Add records a job as processed this session.
func (s *ProcessedSet) Add(key JobKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[key] = struct{}{}
}

// Contains reports whether a job completed this session.
func (s *ProcessedSet) Contains(key JobKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[key]
	return ok
}

// Len returns the number of jobs completed this session.
func (s *ProcessedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
