package embedding

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// cacheEntry is one memoized embedding, keyed by content fingerprint.
type cacheEntry struct {
	vector  []float32
	element *list.Element // position in FIFO order
}

// Cache memoizes embeddings with strict FIFO eviction: once full, the
// oldest inserted entry is evicted regardless of how often it was read.
// This keeps the bookkeeping to a single insertion-order list — the
// trade-off is that a frequently reused old entry can be evicted ahead of
// a rarely used newer one.
//
// Thread-safe. Concurrent misses on the same text may each call the
// underlying embedder; the duplicate work is accepted and bounded.
type Cache struct {
	mu       sync.Mutex
	embedder Embedder
	entries  map[string]*cacheEntry
	order    *list.List // front = oldest insertion
	capacity int
	enabled  bool
	hits     uint64
	misses   uint64
}

// NewCache wraps an embedder with a FIFO cache of the given capacity.
// A non-positive capacity is clamped to 1 so eviction always has an
// entry to remove. A disabled cache passes every call through and never
// stores.
func NewCache(embedder Embedder, capacity int, enabled bool) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		embedder: embedder,
		entries:  make(map[string]*cacheEntry),
		order:    list.New(),
		capacity: capacity,
		enabled:  enabled,
	}
}

// Fingerprint returns the cache key for a text: the hex sha256 of its
// normalized form (trimmed, lower-cased, inner whitespace collapsed).
func Fingerprint(text string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// GetOrCompute returns the cached vector for text, computing and storing
// it on a miss. A failed computation is never stored; the error propagates
// to the caller, which owns any retry policy. A cancelled miss simply
// never completes its insert.
func (c *Cache) GetOrCompute(ctx context.Context, text string) ([]float32, error) {
	if !c.enabled {
		return c.embedder.EmbedText(ctx, text)
	}

	key := Fingerprint(text)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.hits++
		vector := entry.vector
		c.mu.Unlock()
		return vector, nil
	}
	c.misses++
	c.mu.Unlock()

	// The external call runs unlocked so one slow embedding does not
	// serialize every other request.
	vector, err := c.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.insert(key, vector)
	c.mu.Unlock()

	return vector, nil
}

// EmbedText makes Cache itself an Embedder so it can stand in front of
// any component that needs vectors.
func (c *Cache) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return c.GetOrCompute(ctx, text)
}

// insert stores a vector, evicting the oldest entry when at capacity.
// Must be called with the lock held.
func (c *Cache) insert(key string, vector []float32) {
	if entry, ok := c.entries[key]; ok {
		// A concurrent miss already stored this key; keep the existing
		// insertion position so FIFO order stays consistent.
		entry.vector = vector
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			delete(c.entries, oldest.Value.(string))
			c.order.Remove(oldest)
		}
	}

	c.entries[key] = &cacheEntry{
		vector:  vector,
		element: c.order.PushBack(key),
	}
}

// Contains reports whether a text currently has a cached vector.
func (c *Cache) Contains(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[Fingerprint(text)]
	return ok
}

// Clear resets all cached entries and counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order.Init()
	c.hits = 0
	c.misses = 0
}

// Stats represents cache statistics. HitRatio is cumulative across the
// cache's lifetime (since construction or the last Clear).
type Stats struct {
	Size     int
	Capacity int
	Enabled  bool
	Hits     uint64
	Misses   uint64
	HitRatio float64
}

// Stats returns a snapshot of the cache state.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	ratio := 0.0
	if total > 0 {
		ratio = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:     c.order.Len(),
		Capacity: c.capacity,
		Enabled:  c.enabled,
		Hits:     c.hits,
		Misses:   c.misses,
		HitRatio: ratio,
	}
}
