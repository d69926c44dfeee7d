package storage

import (
	"context"
	"sync"
)

// Memory is an in-process [Storage]. Contents are lost when the process
// exits, which makes it the right default for tests and short-lived tools.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory creates an empty [Memory] store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]string),
	}
}

// Get implements [Storage].
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set implements [Storage].
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = value
	return nil
}

// Delete implements [Storage].
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}
