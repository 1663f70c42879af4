package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryClient is an in-process RedisClient used when no Redis deployment
// is configured. Expired entries are dropped lazily on read.
type MemoryClient struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryClient creates an empty in-process cache client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return "", fmt.Errorf("key %s not found", key)
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return "", fmt.Errorf("key %s expired", key)
	}
	return entry.value, nil
}

func (m *MemoryClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("unsupported value type %T", value)
	}

	m.mu.Lock()
	m.entries[key] = memoryEntry{
		value:     str,
		expiresAt: time.Now().Add(expiration),
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	m.mu.Unlock()
	return nil
}
