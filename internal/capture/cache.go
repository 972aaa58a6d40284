package capture

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vex0ray/spyglass/api/schemas"
)

// Cache remembers the most recent frame captured per region. It is a plain
// value object owned by whoever constructs it; nothing in this package keeps
// a global one. Detection never reads from it, so a stale entry can never
// masquerade as a fresh observation; it exists for debug dumps and for hosts
// that want to inspect what the last pass saw.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[schemas.Region]cacheEntry
	hits     uint64
	misses   uint64
}

type cacheEntry struct {
	frame    *schemas.Frame
	storedAt time.Time
}

// NewCache creates a cache holding at most capacity regions.
func NewCache(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return nil, errors.New("cache capacity must be positive")
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[schemas.Region]cacheEntry, capacity),
	}, nil
}

// Put records the latest frame for a region, evicting the oldest entry when
// the cache is full.
func (c *Cache) Put(region schemas.Region, frame *schemas.Frame) {
	if frame == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[region]; !exists && len(c.entries) >= c.capacity {
		var (
			oldestRegion schemas.Region
			oldestAt     time.Time
			first        = true
		)
		for r, e := range c.entries {
			if first || e.storedAt.Before(oldestAt) {
				oldestRegion, oldestAt, first = r, e.storedAt, false
			}
		}
		delete(c.entries, oldestRegion)
	}
	c.entries[region] = cacheEntry{frame: frame, storedAt: time.Now()}
}

// Get returns the last frame stored for the region and when it was stored.
func (c *Cache) Get(region schemas.Region) (*schemas.Frame, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[region]
	if !ok {
		c.misses++
		return nil, time.Time{}, false
	}
	c.hits++
	return entry.frame, entry.storedAt, true
}

// Len reports how many regions currently have a cached frame.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the lifetime hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// RecordingSource decorates a Source so every successful capture lands in a
// Cache on the way through. Failed captures record nothing.
type RecordingSource struct {
	src   Source
	cache *Cache
}

// NewRecordingSource wires a source to a cache.
func NewRecordingSource(src Source, cache *Cache) (*RecordingSource, error) {
	if src == nil {
		return nil, errors.New("source cannot be nil")
	}
	if cache == nil {
		return nil, errors.New("cache cannot be nil")
	}
	return &RecordingSource{src: src, cache: cache}, nil
}

// Capture delegates to the wrapped source and records the result.
func (r *RecordingSource) Capture(ctx context.Context, region schemas.Region) (*schemas.Frame, error) {
	frame, err := r.src.Capture(ctx, region)
	if err != nil {
		return nil, err
	}
	r.cache.Put(region, frame)
	return frame, nil
}
