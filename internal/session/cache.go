package session

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Key identifies source content: the source kind plus a 64-bit content hash.
func Key(kind SourceKind, data []byte) string {
	return string(kind) + ":" + strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Cache holds normalized datasets keyed by source content.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Loaded
	hits    int
	misses  int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: map[string]*Loaded{}}
}

// Get returns the entry for key, if any.
func (c *Cache) Get(key string) (*Loaded, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return l, ok
}

// Put stores an entry.
func (c *Cache) Put(key string, l *Loaded) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = l
}

// Invalidate drops every entry except keep.
func (c *Cache) Invalidate(keep string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k != keep {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
