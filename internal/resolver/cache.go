package resolver

import (
	"stylc/internal/meta"
)

// Cache maps absolute stylesheet paths to processed Metas. It is not safe
// for concurrent use; give every goroutine its own Cache.
type Cache struct {
	metas map[string]*meta.Meta
	hits  int
	miss  int
}

func NewCache() *Cache {
	return &Cache{metas: make(map[string]*meta.Meta)}
}

func (c *Cache) Get(path string) (*meta.Meta, bool) {
	m, ok := c.metas[path]
	if ok {
		c.hits++
	} else {
		c.miss++
	}
	return m, ok
}

func (c *Cache) Put(path string, m *meta.Meta) {
	c.metas[path] = m
}

// Invalidate drops path. Holders of the old Meta keep it; new lookups
// process the file again.
func (c *Cache) Invalidate(path string) {
	delete(c.metas, path)
}

func (c *Cache) Len() int { return len(c.metas) }

// Stats reports lookups served from the cache and lookups that missed.
func (c *Cache) Stats() (hits, misses int) { return c.hits, c.miss }
