package tracker

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// DefaultChartCacheEntries bounds how many rendered charts a ChartCache holds.
const DefaultChartCacheEntries = 256

// RenderCache memoizes rendered chart HTML so repeated page renders are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache keeps rendered chart HTML for a TTL. Keys carry a hash of the
// chart data, so every change to the fish list produces new keys; expired
// entries are swept on each store and the oldest entry is evicted once the
// cache is full.
type ChartCache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]cachedChart
}

type cachedChart struct {
	html    string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A TTL <= 0 never stores.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:        ttl,
		maxEntries: DefaultChartCacheEntries,
		now:        time.Now,
		entries:    make(map[string]cachedChart),
	}
}

// GetOrRender returns the cached HTML for key or renders and stores it.
// Render errors are returned and never cached.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

// Len reports how many entries are held. Expired entries count until the
// next store sweeps them.
func (c *ChartCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ChartCache) lookup(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if !c.now().Before(entry.expires) {
		delete(c.entries, key)
		return "", false
	}
	return entry.html, true
}

func (c *ChartCache) store(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.sweep(now)
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = cachedChart{html: html, expires: now.Add(c.ttl)}
}

// sweep drops expired entries. Callers hold mu.
func (c *ChartCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
		}
	}
}

// evictOldest drops the entry closest to expiry. Callers hold mu.
func (c *ChartCache) evictOldest() {
	var oldest string
	var at time.Time
	for key, entry := range c.entries {
		if oldest == "" || entry.expires.Before(at) {
			oldest, at = key, entry.expires
		}
	}
	delete(c.entries, oldest)
}

// contentHash returns a deterministic hash of the chart content.
func contentHash(chart Chart) string {
	b, err := json.Marshal(chart)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
