package database

import (
	"context"
	"sync"
)

var _ Gateway = (*MemoryGateway)(nil)

type MemoryGateway struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{values: make(map[string]string)}
}

func (m *MemoryGateway) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryGateway) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryGateway) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryGateway) Close() error {
	return nil
}
