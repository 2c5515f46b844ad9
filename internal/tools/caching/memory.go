package caching

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryEngine is an in-process Engine for local development and tests.
type MemoryEngine struct {
	items *gocache.Cache
}

// NewMemoryEngine keeps expired items until they are read again, no janitor
// goroutine is started.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		items: gocache.New(gocache.NoExpiration, 0),
	}
}

func (m *MemoryEngine) Store(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.items.Set(key, value, ttl)
	return nil
}

func (m *MemoryEngine) StoreIfAbsent(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := m.items.Add(key, value, ttl); err != nil {
		return false, nil
	}

	return true, nil
}

func (m *MemoryEngine) Fetch(_ context.Context, key string) ([]byte, error) {
	value, ok := m.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}

	return value.([]byte), nil
}

func (m *MemoryEngine) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *MemoryEngine) Touch(_ context.Context, key string, ttl time.Duration) error {
	value, ok := m.items.Get(key)
	if !ok {
		return ErrMiss
	}

	m.items.Set(key, value, ttl)
	return nil
}
