// Package memory holds the process-lifetime review collection.
package memory

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

// Store is safe for concurrent use. Reviews are only ever appended.
type Store struct {
	id      string
	mu      sync.RWMutex
	reviews []domain.ScoredReview
}

func New() *Store { return &Store{id: uuid.NewString()} }

func (s *Store) ID() string { return s.id }

func (s *Store) Append(r domain.ScoredReview) {
	s.mu.Lock()
	s.reviews = append(s.reviews, r)
	n := len(s.reviews)
	s.mu.Unlock()
	observability.SetReviewsStored(n)
}

// AppendAll adds rs in order under a single lock, so a snapshot sees either
// none or all of them.
func (s *Store) AppendAll(rs []domain.ScoredReview) {
	if len(rs) == 0 {
		return
	}
	s.mu.Lock()
	s.reviews = append(s.reviews, rs...)
	n := len(s.reviews)
	s.mu.Unlock()
	observability.SetReviewsStored(n)
}

// Snapshot returns a copy in insertion order. Later appends never show up in it.
func (s *Store) Snapshot() []domain.ScoredReview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reviews)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
