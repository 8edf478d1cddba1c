package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Cache stores JSON encoded values by key
type Cache interface {
	// Get decodes the cached value into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryCache is a process local Cache guarded by a mutex
type MemoryCache struct {
	entries map[string]memoryEntry
	lock    sync.Mutex
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	mc.lock.Lock()
	entry, ok := mc.entries[key]
	if ok && !entry.expiresAt.IsZero() && !mc.now().Before(entry.expiresAt) {
		delete(mc.entries, key)
		ok = false
	}
	mc.lock.Unlock()

	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(entry.raw, dest)
}

// Set stores value. A zero ttl never expires.
func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := memoryEntry{raw: raw}
	if ttl > 0 {
		entry.expiresAt = mc.now().Add(ttl)
	}

	mc.lock.Lock()
	defer mc.lock.Unlock()
	mc.entries[key] = entry
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.lock.Lock()
	defer mc.lock.Unlock()
	for _, key := range keys {
		delete(mc.entries, key)
	}
	return nil
}
