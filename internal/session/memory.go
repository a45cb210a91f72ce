package session

import (
	"context"
	"sync"
)

type MemoryStorage struct {
	values map[string]string
	mtx    *sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]string),
		mtx:    &sync.RWMutex{},
	}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	delete(m.values, key)
	return nil
}
