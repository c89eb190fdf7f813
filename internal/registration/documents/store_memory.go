package documents

import (
	"context"
	"sort"
	"sync"

	"concours/internal/registration/models"
	"concours/pkg/domain"
	"concours/pkg/sentinel"
)

// MemoryStore keeps documents in maps under one mutex.
type MemoryStore struct {
	mu          sync.RWMutex
	byID        map[domain.DocumentID]models.Document
	byCandidate map[domain.CandidateID][]domain.DocumentID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:        make(map[domain.DocumentID]models.Document),
		byCandidate: make(map[domain.CandidateID][]domain.DocumentID),
	}
}

func (s *MemoryStore) Create(_ context.Context, document models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[document.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[document.ID] = document
	s.byCandidate[document.CandidateID] = append(s.byCandidate[document.CandidateID], document.ID)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id domain.DocumentID) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	document, ok := s.byID[id]
	if !ok {
		return models.Document{}, sentinel.ErrNotFound
	}
	return document, nil
}

func (s *MemoryStore) Update(_ context.Context, document models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[document.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byID[document.ID] = document
	return nil
}

func (s *MemoryStore) ListByCandidate(_ context.Context, candidateID domain.CandidateID) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byCandidate[candidateID]
	documents := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		documents = append(documents, s.byID[id])
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].CreatedAt.Before(documents[j].CreatedAt)
	})
	return documents, nil
}
