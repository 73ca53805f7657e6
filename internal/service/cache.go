package service

import (
	"sync"

	"multizone/internal/model"
)

// FlagCache is a process-wide index of the last-observed flag record per key.
// It is not the source of truth: entries are copies, there is no TTL and no
// eviction, and the whole map can be discarded and rebuilt at any time.
type FlagCache struct {
	mu   sync.RWMutex
	data map[string]model.FeatureFlag
}

func NewFlagCache() *FlagCache {
	return &FlagCache{
		data: make(map[string]model.FeatureFlag),
	}
}

// Get is a pure in-memory lookup; it never reaches the datastore.
func (c *FlagCache) Get(key string) (model.FeatureFlag, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	flag, ok := c.data[key]
	return flag, ok
}

// Put overwrites unconditionally. Last writer wins; there is no version check.
func (c *FlagCache) Put(flag model.FeatureFlag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[flag.Key] = flag
}

func (c *FlagCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

func (c *FlagCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
