package llm

import (
	"sync"
	"time"

	"github.com/fraudlens/fraudlens/internal/model"
)

// cacheEntry represents a cached narrative.
type cacheEntry struct {
	expiry    time.Time
	narrative model.Narrative
}

// narrativeCache provides thread-safe caching of generated narratives,
// keyed by a hash of the prompts. Re-running an unchanged case skips the
// network round trip.
type narrativeCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newNarrativeCache creates a new cache with the specified TTL.
func newNarrativeCache(ttl time.Duration) *narrativeCache {
	if ttl == 0 {
		ttl = 15 * time.Minute // Default TTL
	}

	cache := &narrativeCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	// Start cleanup goroutine
	go cache.cleanup()

	return cache
}

// get retrieves a narrative from the cache if it exists and hasn't expired.
func (c *narrativeCache) get(key string) (model.Narrative, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return model.Narrative{}, false
	}

	if time.Now().After(entry.expiry) {
		return model.Narrative{}, false
	}

	return entry.narrative, true
}

// set stores a narrative in the cache.
func (c *narrativeCache) set(key string, narrative model.Narrative) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		narrative: narrative,
		expiry:    time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *narrativeCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine.
func (c *narrativeCache) Close() {
	close(c.stopCh)
}
