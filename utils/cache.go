// utils/cache.go
package utils

import (
	"context"
	"sync"
	"time"

	"github.com/freshers-portal/backend/models"
	"github.com/freshers-portal/backend/repositories"
)

// RosterCache is a read-through cache over the professor roster. The roster
// changes once a semester at most, so the first request fills the cache and
// everything after is served from memory. TTL of zero means the copy lives
// until Bust or process restart.
type RosterCache struct {
	store repositories.RosterStore
	ttl   time.Duration

	mu       sync.RWMutex
	entries  []models.Profecer
	filledAt time.Time
	filled   bool
}

func NewRosterCache(store repositories.RosterStore, ttl time.Duration) *RosterCache {
	return &RosterCache{
		store: store,
		ttl:   ttl,
	}
}

func (c *RosterCache) Get(ctx context.Context) ([]models.Profecer, error) {
	c.mu.RLock()
	if c.fresh() {
		entries := c.entries
		c.mu.RUnlock()
		return entries, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have filled the cache while we waited on the lock.
	if c.fresh() {
		return c.entries, nil
	}

	entries, err := c.store.ListProfecers(ctx)
	if err != nil {
		return nil, err
	}

	c.entries = entries
	c.filledAt = time.Now()
	c.filled = true
	return entries, nil
}

// Bust drops the cached copy so the next Get reloads from the store.
func (c *RosterCache) Bust() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.filled = false
}

// fresh is called with at least a read lock held.
func (c *RosterCache) fresh() bool {
	if !c.filled {
		return false
	}
	if c.ttl == 0 {
		return true
	}
	return time.Since(c.filledAt) < c.ttl
}
