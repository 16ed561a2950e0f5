package app

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SettingsCache keeps parsed availability documents per agent so the public
// availability endpoint does not re-read and re-decode the row on every
// request. Saves invalidate the entry.
type SettingsCache struct {
	mu    sync.RWMutex
	cache *lru.Cache[string, *AvailabilitySettings]
}

func NewSettingsCache(size int) (*SettingsCache, error) {
	cache, err := lru.New[string, *AvailabilitySettings](size)
	if err != nil {
		return nil, err
	}
	return &SettingsCache{cache: cache}, nil
}

func (c *SettingsCache) Get(agentID string) (*AvailabilitySettings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Get(agentID)
}

func (c *SettingsCache) Put(agentID string, doc *AvailabilitySettings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(agentID, doc)
}

func (c *SettingsCache) Invalidate(agentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(agentID)
}
