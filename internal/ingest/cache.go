package ingest

import "sync"

// Cache tracks, per work key, the unix timestamp at which its interval-based
// cooldown expires. It is intentionally separate from the persistent
// document store in package store: this is scheduling metadata, not data.
type Cache struct {
	mu      sync.RWMutex
	expires map[string]int64
}

// NewCache builds an empty in-memory interval cache.
func NewCache() *Cache {
	return &Cache{expires: make(map[string]int64)}
}

// GetExpiresAt returns the unix timestamp the key's cooldown expires at, or
// 0 if the key has never been set.
func (c *Cache) GetExpiresAt(key string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expires[key]
}

// Set records the expiry timestamp for a key.
func (c *Cache) Set(key string, expiresAtUnix int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires[key] = expiresAtUnix
	return nil
}
