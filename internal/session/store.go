// ABOUTME: LocalStore capability used by the session manager plus an in-memory implementation
// ABOUTME: MemoryStore lets tests and ephemeral runs substitute the durable SQLite store

package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a LocalStore when the key holds no value
var ErrNotFound = errors.New("not found")

// LocalStore is a durable string key/value store.
// Get returns ErrNotFound when the key is absent.
type LocalStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore is an in-memory LocalStore.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set stores value under key, replacing any previous value.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
