package media

import (
	"strings"
	"sync"
)

// Cache memoizes found media by key.
type Cache interface {
	Get(key string) (Info, bool)
	Set(key string, info Info)
}

// MemoryCache is a process-lifetime Cache. Entries never expire.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Info
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]Info),
	}
}

func (c *MemoryCache) Get(key string) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.entries[key]
	return info, ok
}

func (c *MemoryCache) Set(key string, info Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = info
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CacheKey is the lower-cased Latin name, or the Swedish name when no Latin name is known.
func CacheKey(latinName, swedishName string) string {
	if key := strings.ToLower(strings.TrimSpace(latinName)); key != "" {
		return key
	}
	return strings.ToLower(strings.TrimSpace(swedishName))
}
