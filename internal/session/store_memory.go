package session

import (
	"context"
	"sync"
	"time"

	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

// MemoryStore keeps sessions in maps under one mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byToken: make(map[string]Session)}
}

func (s *MemoryStore) Create(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byToken[session.Token]; exists {
		return sentinel.ErrConflict
	}
	s.byToken[session.Token] = session
	return nil
}

func (s *MemoryStore) FindByToken(_ context.Context, token string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byToken[token]
	if !ok {
		return Session{}, sentinel.ErrNotFound
	}
	return session, nil
}

func (s *MemoryStore) FindLiveByCandidate(ctx context.Context, candidateID domain.CandidateID) (Session, error) {
	now := requestcontext.Now(ctx)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, session := range s.byToken {
		if session.CandidateID != nil && *session.CandidateID == candidateID && session.Live(now) {
			return session, nil
		}
	}
	return Session{}, sentinel.ErrNotFound
}

func (s *MemoryStore) UpdateExpiry(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byToken[token]
	if !ok {
		return sentinel.ErrNotFound
	}
	session.ExpiresAt = expiresAt
	s.byToken[token] = session
	return nil
}

func (s *MemoryStore) DeleteByToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byToken[token]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byToken, token)
	return nil
}

func (s *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	now := requestcontext.Now(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for token, session := range s.byToken {
		if !session.Live(now) {
			delete(s.byToken, token)
			purged++
		}
	}
	return purged, nil
}
