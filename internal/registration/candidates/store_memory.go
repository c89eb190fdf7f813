package candidates

import (
	"context"
	"sync"

	"concours/internal/registration/models"
	"concours/pkg/domain"
	"concours/pkg/sentinel"
)

// MemoryStore keeps candidates in maps under one mutex. Promote performs the
// guarded status check under the same lock the Postgres store gets from its
// WHERE predicate.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[domain.CandidateID]models.Candidate
	byNumber map[string]domain.CandidateID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[domain.CandidateID]models.Candidate),
		byNumber: make(map[string]domain.CandidateID),
	}
}

func (s *MemoryStore) Create(_ context.Context, candidate models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[candidate.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byNumber[candidate.ApplicationNumber]; exists {
		return sentinel.ErrConflict
	}
	s.byID[candidate.ID] = candidate
	s.byNumber[candidate.ApplicationNumber] = candidate.ID
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.CandidateID) (models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.byID[id]
	if !ok {
		return models.Candidate{}, sentinel.ErrNotFound
	}
	return candidate, nil
}

func (s *MemoryStore) FindByApplicationNumber(_ context.Context, number string) (models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNumber[number]
	if !ok {
		return models.Candidate{}, sentinel.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, candidate models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.byID[candidate.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	current.FirstName = candidate.FirstName
	current.LastName = candidate.LastName
	current.Email = candidate.Email
	current.Phone = candidate.Phone
	current.UpdatedAt = candidate.UpdatedAt
	s.byID[candidate.ID] = current
	return nil
}

func (s *MemoryStore) UpdateStage(_ context.Context, id domain.CandidateID, stage models.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	candidate.Stage = stage
	s.byID[id] = candidate
	return nil
}

func (s *MemoryStore) Promote(_ context.Context, id domain.CandidateID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, ok := s.byID[id]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if candidate.Status != models.StatusPending {
		return false, nil
	}
	candidate.Status = models.StatusValidated
	s.byID[id] = candidate
	return true, nil
}
