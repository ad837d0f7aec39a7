// Package engine implements the hybrid in-memory search engine: an
// inverted-index keyword pipeline with TF-IDF scoring and faceted filtering,
// and a fuzzy pipeline blending edit-distance, Jaro-Winkler, and n-gram
// similarity, behind one query API with enrichment, caching, and suggestions.
package engine

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ravikiranms/hybridsearch/internal/index"
	"github.com/ravikiranms/hybridsearch/internal/similarity"
	"github.com/ravikiranms/hybridsearch/internal/textpipe"
	"github.com/ravikiranms/hybridsearch/pkg/config"
	apperrors "github.com/ravikiranms/hybridsearch/pkg/errors"
	"github.com/ravikiranms/hybridsearch/pkg/logger"
	"github.com/ravikiranms/hybridsearch/pkg/metrics"
)

// Engine owns every index structure and the result cache exclusively.
// Callers hold only the result records it returns. It is safe for concurrent
// readers; mutations take the exclusive lock.
type Engine struct {
	mu  sync.RWMutex
	cfg config.EngineConfig

	norm      *textpipe.Normalizer
	inv       *index.Inverted
	phrases   *index.Phrases
	facets    *index.Facets
	vectors   *index.Vectors
	docs      map[string]*docRecord
	composite *similarity.Composite

	cache   *queryCache
	stats   *tracker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// docRecord keeps the stored document together with its normalised title
// term set, used for the title boost.
type docRecord struct {
	doc        Document
	titleTerms map[string]struct{}
}

// New builds an engine from the given configuration. The configuration is
// validated (and its scorer weights normalised) before use.
func New(cfg config.EngineConfig) (*Engine, error) {
	return NewWithMetrics(cfg, nil)
}

// NewWithMetrics builds an engine that mirrors its counters into the given
// Prometheus collectors. A nil Metrics disables mirroring.
func NewWithMetrics(cfg config.EngineConfig, m *metrics.Metrics) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg,
		norm: textpipe.NewNormalizer(textpipe.Options{
			CaseSensitive:    cfg.CaseSensitive,
			NormalizeUnicode: cfg.NormalizeUnicode,
			RemoveAccents:    cfg.RemoveAccents,
			MinTermLength:    cfg.MinTermLength,
			StopWords:        cfg.StopWords,
		}),
		inv:     index.NewInverted(),
		phrases: index.NewPhrases(),
		facets:  index.NewFacets(),
		vectors: index.NewVectors(),
		docs:    make(map[string]*docRecord),
		composite: similarity.NewComposite(
			similarity.Weighted{Scorer: similarity.JaroWinkler{PrefixScale: cfg.JaroWinklerPrefixScale}, Weight: cfg.Weights.JaroWinkler},
			similarity.Weighted{Scorer: similarity.NGram{}, Weight: cfg.Weights.NGram},
			similarity.Weighted{Scorer: similarity.EditDistance{}, Weight: cfg.Weights.EditDistance},
		),
		stats:   newTracker(),
		metrics: m,
		logger:  logger.WithComponent("search-engine"),
	}
	if cfg.EnableCache {
		e.cache = newQueryCache(cfg.CacheMaxSize)
	}
	return e, nil
}

// AddDocument indexes a document under the given id, replacing any previous
// document with the same id. Missing content fails with ErrInvalidArgument.
func (e *Engine) AddDocument(id string, doc Document) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.New(apperrors.ErrInvalidArgument, "document id is empty")
	}
	if strings.TrimSpace(doc.Content) == "" {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document %q has no content", id)
	}
	start := time.Now()

	doc.ID = id
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.docs[id]; exists {
		e.removeLocked(id)
	}

	tokens := e.norm.NormalizeText(doc.Title + " " + doc.Content)
	termCounts := make(map[string]int, len(tokens))
	for _, term := range tokens {
		termCounts[term]++
	}
	e.inv.Add(id, termCounts, len(tokens))
	if e.cfg.EnablePhrase {
		e.phrases.Add(id, tokens)
	}
	if e.cfg.EnableFacets && len(doc.Metadata) > 0 {
		e.facets.Add(id, doc.Metadata)
	}
	if e.cfg.EnableTFIDF {
		e.vectors.Rebuild(id, termCounts, len(tokens), e.inv.TotalDocs(), e.inv.DocFreq)
	}

	titleTerms := make(map[string]struct{})
	for _, term := range e.norm.NormalizeText(doc.Title) {
		titleTerms[term] = struct{}{}
	}
	e.docs[id] = &docRecord{doc: doc, titleTerms: titleTerms}

	if e.cache != nil {
		e.cache.purge()
	}
	elapsed := time.Since(start)
	e.stats.recordIndexing(elapsed)
	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Inc()
		e.metrics.IndexingDuration.Observe(elapsed.Seconds())
		e.metrics.IndexedDocuments.Set(float64(e.inv.TotalDocs()))
		e.metrics.IndexedTerms.Set(float64(e.inv.UniqueTerms()))
	}
	e.logger.Debug("document indexed",
		"doc_id", id,
		"token_count", len(tokens),
		"unique_terms", len(termCounts),
	)
	return nil
}

// Document returns the stored document for an id.
func (e *Engine) Document(id string) (Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec, ok := e.docs[id]
	if !ok {
		return Document{}, apperrors.Newf(apperrors.ErrDocumentNotFound, "document %q", id)
	}
	return rec.doc, nil
}

// Related returns documents ranked by cosine similarity of their TF-IDF
// vectors against the given document's vector. Documents with no vector
// overlap (or whose shared terms all carry zero idf) are omitted.
func (e *Engine) Related(id string, limit int) ([]Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.docs[id]; !ok {
		return nil, apperrors.Newf(apperrors.ErrDocumentNotFound, "document %q", id)
	}
	if limit <= 0 {
		limit = e.cfg.MaxResults
	}

	results := make([]Result, 0)
	for other, rec := range e.docs {
		if other == id {
			continue
		}
		score := e.vectors.Cosine(id, other)
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			DocID:    other,
			Score:    score,
			Title:    rec.doc.Title,
			Content:  rec.doc.Content,
			Metadata: rec.doc.Metadata,
		})
	}
	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// RemoveDocument deletes a document from every index. It reports whether the
// id was known.
func (e *Engine) RemoveDocument(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.docs[id]; !exists {
		return false
	}
	e.removeLocked(id)
	if e.cache != nil {
		e.cache.purge()
	}
	if e.metrics != nil {
		e.metrics.DocsRemovedTotal.Inc()
		e.metrics.IndexedDocuments.Set(float64(e.inv.TotalDocs()))
		e.metrics.IndexedTerms.Set(float64(e.inv.UniqueTerms()))
	}
	e.logger.Debug("document removed", "doc_id", id)
	return true
}

func (e *Engine) removeLocked(id string) {
	e.inv.Remove(id)
	e.phrases.Remove(id)
	e.facets.Remove(id)
	e.vectors.Remove(id)
	delete(e.docs, id)
}

// Clear empties every index and the result cache.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inv.Reset()
	e.phrases.Reset()
	e.facets.Reset()
	e.vectors.Reset()
	e.docs = make(map[string]*docRecord)
	if e.cache != nil {
		e.cache.purge()
	}
	if e.metrics != nil {
		e.metrics.IndexedDocuments.Set(0)
		e.metrics.IndexedTerms.Set(0)
	}
	e.logger.Info("index cleared")
}

// Search runs a query in keyword or fuzzy mode and returns enriched results
// in descending score order, ties broken by ascending document id. With the
// cache enabled, repeating a query against unchanged state returns the very
// same result slice.
func (e *Engine) Search(query string, opts SearchOptions) ([]Result, error) {
	if opts.MaxResults < 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "negative max results %d", opts.MaxResults)
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeKeyword
	}
	if mode != ModeKeyword && mode != ModeFuzzy {
		return nil, apperrors.Newf(apperrors.ErrInvalidArgument, "unknown search mode %q", mode)
	}
	limit := opts.MaxResults
	if limit == 0 {
		limit = e.cfg.MaxResults
	}

	start := time.Now()
	results, cacheHit, err := e.searchCached(query, opts, mode, limit)
	elapsed := time.Since(start)
	e.stats.recordQuery(elapsed, cacheHit)

	if e.metrics != nil {
		cacheStatus := "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
		e.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(elapsed.Seconds())
		resultType := "hit"
		switch {
		case err != nil:
			resultType = "error"
		case len(results) == 0:
			resultType = "zero_result"
		}
		e.metrics.SearchQueriesTotal.WithLabelValues(string(mode), resultType).Inc()
		if err == nil {
			e.metrics.SearchResultsCount.Observe(float64(len(results)))
		}
	}
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query executed",
		"query", query,
		"mode", mode,
		"results", len(results),
		"cache_hit", cacheHit,
		"elapsed", elapsed,
	)
	return results, nil
}

func (e *Engine) searchCached(query string, opts SearchOptions, mode Mode, limit int) ([]Result, bool, error) {
	if e.cache == nil {
		results, err := e.execute(query, opts, mode, limit)
		return results, false, err
	}
	key := buildCacheKey(e.norm.Fold(query), opts, mode, limit)
	if results, ok := e.cache.get(key); ok {
		if e.metrics != nil {
			e.metrics.CacheHitsTotal.Inc()
		}
		return results, true, nil
	}
	if e.metrics != nil {
		e.metrics.CacheMissesTotal.Inc()
	}
	v, err, _ := e.cache.group.Do(key, func() (any, error) {
		if results, ok := e.cache.get(key); ok {
			return results, nil
		}
		gen := e.cache.generation()
		results, err := e.execute(query, opts, mode, limit)
		if err != nil {
			return nil, err
		}
		e.cache.put(key, results, gen)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]Result), false, nil
}

func (e *Engine) execute(query string, opts SearchOptions, mode Mode, limit int) ([]Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if mode == ModeFuzzy {
		return e.searchFuzzy(query, opts, limit)
	}
	return e.searchKeyword(query, opts, limit)
}

// Suggest returns indexed terms and phrases that strictly extend the folded
// prefix, ranked by descending posting count. Prefixes shorter than two
// characters yield nothing.
func (e *Engine) Suggest(prefix string, limit int) []string {
	if e.metrics != nil {
		e.metrics.SuggestionsTotal.Inc()
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.suggestLocked(prefix, limit)
}

// Facets reports every active facet as name -> value -> document count.
func (e *Engine) Facets() map[string]map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.facets.Counts()
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.stats.snapshot()
	s.Documents = e.inv.TotalDocs()
	s.Terms = e.inv.TotalTerms()
	s.UniqueTerms = e.inv.UniqueTerms()
	s.PhraseEntries = e.phrases.Len()
	s.FacetCount = e.facets.Len()
	s.AvgDocLength = e.inv.AvgDocLength()
	return s
}
