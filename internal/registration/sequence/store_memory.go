package sequence

import (
	"context"
	"sync"
)

// MemoryCounterStore keeps the per-day counters under a single mutex, which
// gives the same linearizable increment the Postgres upsert provides.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{counters: make(map[string]int64)}
}

func (s *MemoryCounterStore) Next(_ context.Context, dateKey string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[dateKey]++
	return s.counters[dateKey], nil
}

// Value returns the current counter for a day key without incrementing.
func (s *MemoryCounterStore) Value(dateKey string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[dateKey]
}
