// Package store persists the allergy profile as whole JSON collections in a
// key-value backend.
package store

import (
	"context"
	"sync"
)

// KV is the raw key-value backend behind a ProfileStore.
type KV interface {
	// Get returns the value for key. ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ KV = (*MemoryKV)(nil)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
