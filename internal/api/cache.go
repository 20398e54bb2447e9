package api

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fitscope/fitscope/pkg/intgraph"
)

// GraphCache is a thread-safe LRU cache for built integration graphs,
// keyed by tenant and build options. Entries expire after a TTL because
// webhook writes can change a tenant's graph between builds.
type GraphCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*graphEntry
	order   []string // oldest first
}

type graphEntry struct {
	graph    *intgraph.Graph
	storedAt time.Time
}

func cacheKey(tenantID string, opts intgraph.Options) string {
	return fmt.Sprintf("%s|rec=%t|inactive=%t", tenantID, opts.IncludeRecommendations, opts.IncludeInactive)
}

// NewGraphCache creates a cache with the given maximum number of entries
// and TTL. If maxSize <= 0, it defaults to 50; if ttl <= 0, to 30 seconds.
func NewGraphCache(maxSize int, ttl time.Duration) *GraphCache {
	if maxSize <= 0 {
		maxSize = 50
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &GraphCache{
		maxSize: maxSize,
		ttl:     ttl,
		entries: make(map[string]*graphEntry),
	}
}

// NewGraphCacheFromEnv creates a cache sized from FITSCOPE_GRAPH_CACHE_SIZE.
func NewGraphCacheFromEnv() *GraphCache {
	size := 50
	if v := os.Getenv("FITSCOPE_GRAPH_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewGraphCache(size, 0)
}

// Get retrieves a cached graph, reporting whether a fresh entry was found.
func (c *GraphCache) Get(tenantID string, opts intgraph.Options) (*intgraph.Graph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(tenantID, opts)
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) > c.ttl {
		c.remove(key)
		return nil, false
	}

	c.moveToEnd(key)
	return entry.graph, true
}

// Put adds a graph to the cache, evicting the oldest if full.
func (c *GraphCache) Put(tenantID string, opts intgraph.Options, g *intgraph.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(tenantID, opts)
	if _, ok := c.entries[key]; ok {
		c.entries[key] = &graphEntry{graph: g, storedAt: time.Now()}
		c.moveToEnd(key)
		return
	}

	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &graphEntry{graph: g, storedAt: time.Now()}
	c.order = append(c.order, key)
}

// Invalidate drops every cached variant for a tenant.
func (c *GraphCache) Invalidate(tenantID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := tenantID + "|"
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.remove(key)
		}
	}
}

func (c *GraphCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *GraphCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
