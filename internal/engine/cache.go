package engine

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// queryCache is a bounded in-process result cache. Values are the enriched
// result slices themselves, so a repeat hit returns the identical slice.
// Eviction removes the oldest-inserted entry; any index mutation purges the
// whole cache. Concurrent computes of the same key are deduplicated through
// singleflight.
//
// Results are computed outside the cache lock, so a mutation can purge while
// a compute is in flight. Every purge bumps the generation, and put discards
// an entry computed against an older generation. An insert after the purge
// would otherwise serve pre-mutation results to post-mutation queries.
type queryCache struct {
	mu      sync.Mutex
	entries map[string][]Result
	order   []string
	max     int
	gen     uint64
	group   singleflight.Group
}

func newQueryCache(max int) *queryCache {
	return &queryCache{
		entries: make(map[string][]Result, max),
		max:     max,
	}
}

func (c *queryCache) get(key string) ([]Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.entries[key]
	return results, ok
}

// generation returns the current purge generation. Capture it before
// computing results and pass it to put.
func (c *queryCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *queryCache) put(key string, results []Result, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if _, exists := c.entries[key]; exists {
		c.entries[key] = results
		return
	}
	for len(c.entries) >= c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = results
	c.order = append(c.order, key)
}

func (c *queryCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[string][]Result, c.max)
	c.order = c.order[:0]
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// buildCacheKey serialises the folded query, sorted filters, mode, top-k,
// threshold, and field list into a deterministic hashed key.
func buildCacheKey(foldedQuery string, opts SearchOptions, mode Mode, limit int) string {
	parts := []string{string(mode), foldedQuery, fmt.Sprintf("limit=%d", limit)}
	if opts.Threshold != 0 {
		parts = append(parts, fmt.Sprintf("threshold=%g", opts.Threshold))
	}
	if len(opts.Fields) > 0 {
		fields := append([]string(nil), opts.Fields...)
		sort.Strings(fields)
		parts = append(parts, "fields="+strings.Join(fields, ","))
	}
	if len(opts.Filters) > 0 {
		keys := make([]string, 0, len(opts.Filters))
		for k := range opts.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			values := append([]string(nil), opts.Filters[k]...)
			sort.Strings(values)
			parts = append(parts, k+"="+strings.Join(values, ","))
		}
	}
	raw := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", hash[:16])
}
