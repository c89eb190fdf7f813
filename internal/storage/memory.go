package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type object struct {
	data []byte
	meta Metadata
}

// Memory is an in-process DocumentStore for tests and local development.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]object
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]object)}
}

func (m *Memory) Put(_ context.Context, data []byte, meta Metadata) (string, error) {
	ref := fmt.Sprintf("mem://%s", uuid.NewString())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[ref] = object{data: append([]byte{}, data...), meta: meta}
	return ref, nil
}

func (m *Memory) Exists(_ context.Context, storageRef string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[storageRef]
	return ok, nil
}
