package engine

import (
	"sync"
	"time"
)

// tracker accumulates instance-scoped counters: query totals, cache hits,
// indexing time, and a running-average query latency.
type tracker struct {
	mu             sync.Mutex
	totalQueries   int64
	cacheHits      int64
	indexingTime   time.Duration
	queryTimeTotal time.Duration
}

func newTracker() *tracker {
	return &tracker{}
}

func (t *tracker) recordQuery(elapsed time.Duration, cacheHit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalQueries++
	t.queryTimeTotal += elapsed
	if cacheHit {
		t.cacheHits++
	}
}

func (t *tracker) recordIndexing(elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.indexingTime += elapsed
}

// snapshot fills the tracker-owned fields of a Stats record; the engine adds
// the index-derived fields.
func (t *tracker) snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Stats{
		TotalQueries: t.totalQueries,
		CacheHits:    t.cacheHits,
		IndexingTime: t.indexingTime,
	}
	if t.totalQueries > 0 {
		s.CacheHitRate = float64(t.cacheHits) / float64(t.totalQueries)
		s.AvgQueryTime = t.queryTimeTotal / time.Duration(t.totalQueries)
	}
	return s
}
