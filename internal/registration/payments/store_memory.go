package payments

import (
	"context"
	"sync"

	"concours/internal/registration/models"
	"concours/pkg/domain"
	"concours/pkg/sentinel"
)

// MemoryStore keeps payment attempts in maps under one mutex.
type MemoryStore struct {
	mu          sync.RWMutex
	byID        map[domain.PaymentID]models.Payment
	byReference map[string]domain.PaymentID
	byCandidate map[domain.CandidateID][]domain.PaymentID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:        make(map[domain.PaymentID]models.Payment),
		byReference: make(map[string]domain.PaymentID),
		byCandidate: make(map[domain.CandidateID][]domain.PaymentID),
	}
}

func (s *MemoryStore) Create(_ context.Context, payment models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byReference[payment.Reference]; exists {
		return sentinel.ErrConflict
	}
	s.byID[payment.ID] = payment
	s.byReference[payment.Reference] = payment.ID
	s.byCandidate[payment.CandidateID] = append(s.byCandidate[payment.CandidateID], payment.ID)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.PaymentID) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payment, ok := s.byID[id]
	if !ok {
		return models.Payment{}, sentinel.ErrNotFound
	}
	return payment, nil
}

func (s *MemoryStore) FindByReference(_ context.Context, reference string) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byReference[reference]
	if !ok {
		return models.Payment{}, sentinel.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemoryStore) UpdateState(_ context.Context, id domain.PaymentID, state models.PaymentState) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.byID[id]
	if !ok {
		return models.Payment{}, sentinel.ErrNotFound
	}
	payment.State = state
	s.byID[id] = payment
	return payment, nil
}

// CurrentForCandidate picks the latest attempt by creation time. Ties go to
// the later insertion, matching the created_at DESC LIMIT 1 of the Postgres
// store.
func (s *MemoryStore) CurrentForCandidate(_ context.Context, candidateID domain.CandidateID) (models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byCandidate[candidateID]
	if len(ids) == 0 {
		return models.Payment{}, sentinel.ErrNotFound
	}
	current := s.byID[ids[0]]
	for _, id := range ids[1:] {
		payment := s.byID[id]
		if !payment.CreatedAt.Before(current.CreatedAt) {
			current = payment
		}
	}
	return current, nil
}
