package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory. It plays the part of the
// volatile mirror and is the default backend in tests.
//
// A positive quota caps the total number of value bytes held; a Set that
// would exceed it fails with ErrQuotaExceeded and leaves the old value.
type MemoryBackend struct {
	mu     sync.RWMutex
	items  map[string][]byte
	quota  int
	used   int
	closed bool
}

func NewMemoryBackend(quota int) *MemoryBackend {
	return &MemoryBackend{items: make(map[string][]byte), quota: quota}
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	used := m.used - len(m.items[key]) + len(value)
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}
	m.items[key] = append([]byte(nil), value...)
	m.used = used
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.used -= len(m.items[key])
	delete(m.items, key)
	return nil
}

// Keys lists the stored keys in no particular order.
func (m *MemoryBackend) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	return keys
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
