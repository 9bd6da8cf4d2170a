package driver

import (
	"sync"
)

// minimal per-process cache by stylesheet path + tree digest
type cached struct {
	digest  Digest
	payload *DiskPayload
}

// ResultCache keeps the last compiled output per stylesheet in memory.
type ResultCache struct {
	mu     sync.RWMutex
	byPath map[string]cached
}

// NewResultCache creates a ResultCache with the given capacity hint.
func NewResultCache(capHint int) *ResultCache {
	return &ResultCache{byPath: make(map[string]cached, capHint)}
}

// Get returns the payload stored for path when it was compiled from the
// same tree digest.
func (c *ResultCache) Get(path string, digest Digest) (*DiskPayload, bool) {
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if !ok || rec.digest != digest {
		return nil, false
	}
	return rec.payload, true
}

// Put replaces the entry of payload.Path.
func (c *ResultCache) Put(digest Digest, payload *DiskPayload) {
	c.mu.Lock()
	c.byPath[payload.Path] = cached{digest: digest, payload: payload}
	c.mu.Unlock()
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPath)
}
