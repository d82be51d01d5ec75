package resource

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// cache is a bounded LRU of resolved handles, safe for concurrent use.
// Only successful resolutions are ever added.
type cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

func newCache(capacity int, onEvicted func(path string)) *cache {
	c := &cache{lru: lru.New(capacity)}
	if onEvicted != nil {
		c.lru.OnEvicted = func(key lru.Key, _ interface{}) {
			onEvicted(key.(string))
		}
	}
	return c
}

func (c *cache) get(path string) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(path)
	if !ok {
		return nil, false
	}
	return v.(*Handle), true
}

func (c *cache) add(path string, h *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(path, h)
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
