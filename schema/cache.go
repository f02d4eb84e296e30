package schema

import "sync"

// Cache holds schema summaries keyed by connection identity, so hosts
// serving multiple conversations against the same target only pay for
// introspection once. Entries never expire on their own; the host
// invalidates a key when the connection target changes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Summary
}

// NewCache creates an empty summary cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Summary)}
}

// Get returns the cached summary for a connection key.
func (c *Cache) Get(key string) (Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary, ok := c.entries[key]
	return summary, ok
}

// Put stores a summary under a connection key.
func (c *Cache) Put(key string, summary Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = summary
}

// Invalidate drops the entry for a single connection key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}
