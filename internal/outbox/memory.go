package outbox

import (
	"context"
	"sync"

	"concours/pkg/domain"
)

// Memory is an in-process outbox that records events. Used as the engine's
// test double and for local development.
type Memory struct {
	mu     sync.RWMutex
	events map[domain.CandidateID][]Event
}

func NewMemory() *Memory {
	return &Memory{events: make(map[domain.CandidateID][]Event)}
}

func (m *Memory) Enqueue(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.CandidateID] = append(m.events[event.CandidateID], event)
	return nil
}

// ListByCandidate returns a copy of the events recorded for one candidate.
func (m *Memory) ListByCandidate(candidateID domain.CandidateID) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Event{}, m.events[candidateID]...)
}

// All returns every recorded event across candidates.
func (m *Memory) All() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []Event
	for _, events := range m.events {
		all = append(all, events...)
	}
	return all
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[domain.CandidateID][]Event)
}
