// Package cache is the read-side memoization layer. Entries are grouped into
// families so a write can drop every cached view it might have staled in one
// call, without knowing the individual keys. There is no TTL; eviction is
// purely event-driven from the mutating operations.
package cache

import "sync"

type Cache interface {
	Get(family, key string) (any, bool)
	Put(family, key string, value any)
	EvictKey(family, key string)
	EvictFamily(family string)
}

type memoryCache struct {
	mu       sync.RWMutex
	families map[string]map[string]any
}

func NewMemory() Cache {
	return &memoryCache{families: make(map[string]map[string]any)}
}

func (c *memoryCache) Get(family, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.families[family]
	if !ok {
		return nil, false
	}
	v, ok := f[key]
	return v, ok
}

func (c *memoryCache) Put(family, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.families[family]
	if !ok {
		f = make(map[string]any)
		c.families[family] = f
	}
	f[key] = value
}

func (c *memoryCache) EvictKey(family, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.families[family]; ok {
		delete(f, key)
	}
}

func (c *memoryCache) EvictFamily(family string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.families, family)
}
