// Package persist round-trips the store state through a key/value backend.
package persist

import (
	"context"
	"errors"
	"sync"
)

// DefaultKey is the storage key the whole state is written under.
const DefaultKey = "kanban-board-state"

var (
	// ErrNotFound is returned by Storage.Get for a key that was never set.
	ErrNotFound = errors.New("persist: key not found")
	// ErrInvalidShape is returned by Decode when a blob is not a state record.
	ErrInvalidShape = errors.New("persist: invalid state shape")
)

// Storage is a blob store keyed by string.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryStorage keeps blobs in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStorage) Close() error { return nil }
