package layout

import (
	"sync"

	"zenc/internal/types"
)

type cacheEntry struct {
	Layout StructLayout
	Err    *LayoutError
}

// cache is safe for concurrent readers; IDE queries share one engine.
type cache struct {
	mu     sync.RWMutex
	byType map[types.TypeID]cacheEntry
}

func newCache() *cache {
	return &cache{byType: make(map[types.TypeID]cacheEntry, 256)}
}

func (c *cache) get(id types.TypeID) (cacheEntry, bool) {
	if c == nil {
		return cacheEntry{}, false
	}
	c.mu.RLock()
	e, ok := c.byType[id]
	c.mu.RUnlock()
	return e, ok
}

func (c *cache) put(id types.TypeID, e cacheEntry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.byType[id] = e
	c.mu.Unlock()
}
