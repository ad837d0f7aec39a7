package engine

import (
	"math"
	"sort"
)

// searchKeyword runs the inverted-index pipeline: candidate collection,
// facet filtering, TF-IDF scoring with boosts and length normalisation,
// top-k truncation, and enrichment.
func (e *Engine) searchKeyword(query string, opts SearchOptions, limit int) ([]Result, error) {
	pq := e.parseQuery(query)

	candidates := make(map[string]struct{})
	switch {
	case pq.empty() && len(opts.Filters) == 0:
		return []Result{}, nil
	case pq.empty():
		// Filter-only query: every live document is a candidate.
		for id := range e.docs {
			candidates[id] = struct{}{}
		}
	default:
		for _, term := range pq.terms {
			for id := range e.inv.Lookup(term) {
				candidates[id] = struct{}{}
			}
		}
		if e.cfg.EnablePhrase {
			for _, phrase := range pq.phrases {
				for id := range e.phrases.Lookup(phrase.key) {
					candidates[id] = struct{}{}
				}
			}
		}
	}

	candidates = e.applyFilters(candidates, opts.Filters)
	if len(candidates) == 0 {
		return []Result{}, nil
	}

	scored := make([]Result, 0, len(candidates))
	for id := range candidates {
		res, ok := e.scoreKeyword(id, pq)
		if !ok {
			continue
		}
		scored = append(scored, res)
	}

	sortResults(scored)
	if len(scored) > limit {
		scored = scored[:limit]
	}
	for i := range scored {
		e.enrich(&scored[i], pq)
	}
	return scored, nil
}

// applyFilters intersects the candidate set with the union of allowed facet
// values per filter key. A filter naming an unindexed facet leaves the
// candidates unchanged and logs a warning.
func (e *Engine) applyFilters(candidates map[string]struct{}, filters map[string][]string) map[string]struct{} {
	if len(filters) == 0 || !e.cfg.EnableFacets {
		return candidates
	}
	for name, values := range filters {
		if !e.facets.Has(name) {
			e.logger.Warn("filter references unknown facet", "facet", name)
			if e.metrics != nil {
				e.metrics.FacetFilterWarnings.Inc()
			}
			continue
		}
		allowed := make(map[string]struct{})
		for _, value := range values {
			for id := range e.facets.Lookup(name, value) {
				allowed[id] = struct{}{}
			}
		}
		for id := range candidates {
			if _, ok := allowed[id]; !ok {
				delete(candidates, id)
			}
		}
	}
	return candidates
}

// scoreKeyword computes a candidate's score per the keyword pipeline. It
// reports false when the score falls below the configured minimum.
func (e *Engine) scoreKeyword(id string, pq parsedQuery) (Result, bool) {
	rec := e.docs[id]
	if rec == nil {
		return Result{}, false
	}
	docLen := e.inv.DocLength(id)
	if docLen == 0 {
		return Result{}, false
	}

	vector := e.vectors.Get(id)
	useVector := e.cfg.EnableTFIDF && len(vector) > 0

	score := 0.0
	termMatches := 0
	titleMatches := 0
	for _, term := range pq.terms {
		tf := e.inv.TermFrequency(term, id)
		if tf == 0 {
			continue
		}
		termMatches++
		if useVector {
			score += vector[term]
		} else {
			score += float64(tf)
		}
		if _, ok := rec.titleTerms[term]; ok {
			titleMatches++
		}
	}

	phraseMatches := 0
	if e.cfg.EnablePhrase {
		for _, phrase := range pq.phrases {
			if _, ok := e.phrases.Lookup(phrase.key)[id]; ok {
				phraseMatches++
				score += e.cfg.PhraseBonus
			}
		}
	}

	if titleMatches > 0 && len(pq.terms) > 0 {
		score *= 1 + e.cfg.BoostTitle*(float64(titleMatches)/float64(len(pq.terms)))
	}
	if pq.size() > 1 && termMatches+phraseMatches == pq.size() {
		score *= e.cfg.BoostExactMatch
	}
	score /= math.Log2(1 + float64(docLen))

	if score < e.cfg.MinScore {
		return Result{}, false
	}

	completeness := 0.0
	if pq.size() > 0 {
		completeness = float64(termMatches+phraseMatches) / float64(pq.size())
	}
	return Result{
		DocID:         id,
		Score:         score,
		MatchingTerms: termMatches,
		PhraseMatches: phraseMatches,
		Title:         rec.doc.Title,
		Content:       rec.doc.Content,
		Metadata:      rec.doc.Metadata,
		Relevance: RelevanceFactors{
			TermMatches:       termMatches,
			PhraseMatches:     phraseMatches,
			TitleMatches:      titleMatches,
			QueryCompleteness: completeness,
			DocumentLength:    docLen,
		},
	}, true
}

// sortResults orders by descending score, ties broken by ascending doc id so
// ordering is deterministic.
func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
}
