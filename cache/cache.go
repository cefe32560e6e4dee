// Package cache keeps decoded pipeline artifacts in memory for the server.
// An entry is valid while the file on disk keeps the same size and
// modification time.
package cache

import (
	"os"
	"sync"
	"time"
)

// entry holds a decoded artifact with the file state it was decoded from.
type entry struct {
	value    any
	modTime  time.Time
	size     int64
	lastUsed time.Time
}

// Loader decodes the artifact at path.
type Loader func(path string) (any, error)

// Stats reports cache effectiveness.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Cache is an in-memory artifact cache keyed by path.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	hits       int64
	misses     int64
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries unused
// for an hour.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}

	go c.cleanupLoop()
	return c
}

// Load returns the decoded artifact at path, calling load only when the
// file changed since it was last decoded. Stat errors are returned as is,
// so a missing artifact satisfies errors.Is(err, fs.ErrNotExist).
func (c *Cache) Load(path string, load Loader) (any, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.mu.Lock()
		delete(c.store, path)
		c.mu.Unlock()
		return nil, err
	}

	c.mu.Lock()
	e, ok := c.store[path]
	if ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		e.lastUsed = time.Now()
		c.hits++
		c.mu.Unlock()
		return e.value, nil
	}
	c.misses++
	c.mu.Unlock()

	value, err := load(path)
	if err != nil {
		return nil, err
	}
	c.set(path, value, info)
	return value, nil
}

// set stores a value. If the cache is at capacity, a random entry is
// evicted to make room.
func (c *Cache) set(path string, value any, info os.FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if _, exists := c.store[path]; !exists && len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[path] = &entry{
		value:    value,
		modTime:  info.ModTime(),
		size:     info.Size(),
		lastUsed: time.Now(),
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.store), Hits: c.hits, Misses: c.misses}
}

// cleanupLoop evicts entries unused for 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.lastUsed.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
