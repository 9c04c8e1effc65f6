package feature

import (
	"context"
	"errors"
	"sync"

	"github.com/couchcryptid/rainfall-risk-service/internal/domain"
)

// Store holds the most recently built FeatureSet for concurrent readers.
// The build replaces the whole set atomically; readers only ever see a
// complete snapshot.
type Store struct {
	mu        sync.RWMutex
	set       domain.FeatureSet
	populated bool
}

func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a newly built FeatureSet.
func (s *Store) Replace(set domain.FeatureSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = set
	s.populated = true
}

// Snapshot returns the current set and whether one has been stored yet.
func (s *Store) Snapshot() (domain.FeatureSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set, s.populated
}

// PCodes lists the distinct PCODEs of the current set, sorted ascending.
func (s *Store) PCodes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.PCodes()
}

// Recent returns the query view over the current set; see [Recent].
func (s *Store) Recent(pcode string, n int) []domain.FeatureRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Recent(s.set.Rows, pcode, n)
}

// CheckReadiness returns nil once a FeatureSet has been stored, or an error
// describing why the service is not yet ready.
func (s *Store) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.populated {
		return errors.New("feature set has not been built yet")
	}
	return nil
}
