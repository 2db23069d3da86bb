package store

import (
	"context"
	"sync"
)

// Memory keeps the blob in process memory. Nothing survives a restart.
type Memory struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *Memory) Save(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append(make([]byte, 0, len(data)), data...)
	return nil
}

func (m *Memory) Close() error { return nil }
