package engine

import "time"

// Document is the unit of indexing. Metadata values must be scalars to be
// indexed as facets; non-scalar values are ignored.
type Document struct {
	ID        string         `json:"id"`
	Title     string         `json:"title,omitempty"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"`
}

// Mode selects the scoring pipeline for a query.
type Mode string

const (
	ModeKeyword Mode = "keyword"
	ModeFuzzy   Mode = "fuzzy"
)

// SearchOptions tunes a single query. The zero value selects keyword mode
// with the engine's configured defaults.
type SearchOptions struct {
	// MaxResults overrides the configured top-k; negative values are
	// rejected, zero selects the default.
	MaxResults int

	// Filters restricts results to documents whose facet value for each key
	// is among the allowed values. Values for one key are OR-ed, keys are
	// AND-ed.
	Filters map[string][]string

	// Mode selects keyword (default) or fuzzy scoring.
	Mode Mode

	// Fields restricts fuzzy matching to the named document fields
	// ("title", "content", or a metadata key). Empty selects title and
	// content.
	Fields []string

	// Threshold drops fuzzy results scoring below it; zero selects the
	// engine default.
	Threshold float64
}

// SubScores carries the per-scorer breakdown of a fuzzy result.
type SubScores struct {
	EditDistance float64 `json:"edit_distance"`
	JaroWinkler  float64 `json:"jaro_winkler"`
	NGram        float64 `json:"ngram"`
}

// MatchDetails describes how a fuzzy result matched the query.
type MatchDetails struct {
	Exact         bool   `json:"exact"`
	Prefix        bool   `json:"prefix"`
	Substring     bool   `json:"substring"`
	EditDistance  int    `json:"edit_distance"`
	CommonBigrams int    `json:"common_bigrams"`
	Field         string `json:"field"`
}

// RelevanceFactors explains why a result ranked where it did.
type RelevanceFactors struct {
	TermMatches       int     `json:"term_matches"`
	PhraseMatches     int     `json:"phrase_matches"`
	TitleMatches      int     `json:"title_matches"`
	QueryCompleteness float64 `json:"query_completeness"`
	DocumentLength    int     `json:"document_length"`
}

// Result is one enriched search hit. SubScores and MatchDetails are only
// populated in fuzzy mode.
type Result struct {
	DocID         string            `json:"doc_id"`
	Score         float64           `json:"score"`
	SubScores     *SubScores        `json:"sub_scores,omitempty"`
	MatchDetails  *MatchDetails     `json:"match_details,omitempty"`
	MatchingTerms int               `json:"matching_terms"`
	PhraseMatches int               `json:"phrase_matches"`
	Title         string            `json:"title,omitempty"`
	Content       string            `json:"content"`
	Metadata      map[string]any    `json:"metadata,omitempty"`
	Snippet       string            `json:"snippet"`
	Highlighted   string            `json:"highlighted"`
	Relevance     RelevanceFactors  `json:"relevance"`
	Facets        map[string]string `json:"facets,omitempty"`
}

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	TotalQueries  int64         `json:"total_queries"`
	CacheHits     int64         `json:"cache_hits"`
	CacheHitRate  float64       `json:"cache_hit_rate"`
	Documents     int           `json:"documents"`
	Terms         int64         `json:"terms"`
	UniqueTerms   int           `json:"unique_terms"`
	PhraseEntries int           `json:"phrase_entries"`
	FacetCount    int           `json:"facet_count"`
	AvgDocLength  float64       `json:"avg_doc_length"`
	IndexingTime  time.Duration `json:"indexing_time"`
	AvgQueryTime  time.Duration `json:"avg_query_time"`
}
