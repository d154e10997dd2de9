package seed

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// DefaultCacheSize bounds the per-run triple cache.
const DefaultCacheSize = 1024

// tripleCache maps a source hash to its triple for the duration of one run.
// Once full it stops admitting entries; nothing is evicted. Concurrent loads
// of one key share a single generation.
type tripleCache struct {
	mu      sync.Mutex
	cap     int
	entries map[string]vector.Triple
	flight  singleflight.Group
}

func newTripleCache(capacity int) *tripleCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &tripleCache{cap: capacity, entries: make(map[string]vector.Triple)}
}

func (c *tripleCache) get(key string) (vector.Triple, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.entries[key]
	return t, ok
}

// load returns the triple for key, calling gen at most once for callers that
// overlap. cached is false only for the caller whose gen ran. Failures are
// not stored.
func (c *tripleCache) load(key string, gen func() (vector.Triple, error)) (t vector.Triple, cached bool, err error) {
	if t, ok := c.get(key); ok {
		return t, true, nil
	}

	generated := false
	v, err, _ := c.flight.Do(key, func() (any, error) {
		// a flight that ended between get and Do has already stored it
		if t, ok := c.get(key); ok {
			return t, nil
		}
		generated = true
		t, err := gen()
		if err != nil {
			return nil, err
		}
		c.put(key, t)
		return t, nil
	})
	if err != nil {
		return vector.Triple{}, false, err
	}
	return v.(vector.Triple), !generated, nil
}

func (c *tripleCache) put(key string, t vector.Triple) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok || len(c.entries) >= c.cap {
		return
	}
	c.entries[key] = t
}

func (c *tripleCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
