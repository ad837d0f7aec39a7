package engine

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ravikiranms/hybridsearch/internal/index"
	"github.com/ravikiranms/hybridsearch/internal/similarity"
)

// defaultFuzzyThreshold applies when neither the caller nor the
// configuration supplies a minimum fuzzy score.
const defaultFuzzyThreshold = 0.3

// fuzzyMaxShards caps the errgroup fan-out for the candidate scan.
const fuzzyMaxShards = 8

// searchFuzzy scores every live document against the query with the weighted
// scorer composite, applies exact/prefix/substring multipliers, and keeps
// results at or above the threshold. The candidate scan is sharded across an
// errgroup; results land in fixed slots so ordering stays deterministic.
func (e *Engine) searchFuzzy(query string, opts SearchOptions, limit int) ([]Result, error) {
	folded := e.norm.Fold(strings.TrimSpace(query))
	if folded == "" {
		return []Result{}, nil
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = e.cfg.MinScore
	}
	if threshold == 0 {
		threshold = defaultFuzzyThreshold
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = []string{"title", "content"}
	}

	ids := make([]string, 0, len(e.docs))
	for id := range e.docs {
		ids = append(ids, id)
	}
	candidates := e.applyFilters(toSet(ids), opts.Filters)
	ids = ids[:0]
	for id := range candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	slots := make([]*Result, len(ids))
	shards := runtime.GOMAXPROCS(0)
	if shards > fuzzyMaxShards {
		shards = fuzzyMaxShards
	}
	if shards < 1 {
		shards = 1
	}
	chunk := (len(ids) + shards - 1) / shards

	g, _ := errgroup.WithContext(context.Background())
	for lo := 0; lo < len(ids); lo += chunk {
		hi := lo + chunk
		if hi > len(ids) {
			hi = len(ids)
		}
		lo, hi := lo, hi
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				slots[i] = e.scoreFuzzy(ids[i], folded, fields, threshold)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(ids))
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}
	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}

	queryTerms := parsedQuery{raw: query, terms: e.norm.NormalizeText(query)}
	for i := range results {
		e.enrich(&results[i], queryTerms)
	}
	return results, nil
}

// scoreFuzzy scores one document against the folded query, keeping the best
// field. It returns nil when the document cannot reach the threshold.
func (e *Engine) scoreFuzzy(id, query string, fields []string, threshold float64) *Result {
	rec := e.docs[id]
	if rec == nil {
		return nil
	}

	var best *Result
	for _, field := range fields {
		target := e.fieldValue(rec, field)
		if target == "" {
			continue
		}
		target = e.norm.Fold(target)

		subs, base, ok := e.blendScorers(query, target, threshold)
		if !ok {
			continue
		}

		exact := target == query
		prefix := !exact && strings.HasPrefix(target, query)
		substring := !exact && !prefix && strings.Contains(target, query)
		score := base
		switch {
		case exact:
			score *= e.cfg.BoostExactMatch
		case prefix:
			score *= e.cfg.BoostPrefixMatch
		case substring:
			score *= e.cfg.BoostSubstringMatch
		}
		if score < threshold {
			continue
		}
		if best != nil && score <= best.Score {
			continue
		}
		best = &Result{
			DocID: id,
			Score: score,
			SubScores: &SubScores{
				EditDistance: subs["edit_distance"],
				JaroWinkler:  subs["jaro_winkler"],
				NGram:        subs["ngram"],
			},
			MatchDetails: &MatchDetails{
				Exact:         exact,
				Prefix:        prefix,
				Substring:     substring,
				EditDistance:  similarity.Distance(query, target),
				CommonBigrams: similarity.Common(query, target, 2),
				Field:         field,
			},
			Title:    rec.doc.Title,
			Content:  rec.doc.Content,
			Metadata: rec.doc.Metadata,
			Relevance: RelevanceFactors{
				DocumentLength: e.inv.DocLength(id),
			},
		}
	}
	return best
}

// blendScorers runs the composite cheapest-first, skipping the edit-distance
// scorer when even a perfect edit score times the largest multiplier cannot
// reach the threshold.
func (e *Engine) blendScorers(query, target string, threshold float64) (map[string]float64, float64, bool) {
	members := e.composite.Members()
	subs := make(map[string]float64, len(members))
	total := 0.0
	remaining := 0.0
	for _, ws := range members {
		remaining += ws.Weight
	}
	maxMultiplier := e.cfg.BoostExactMatch
	if e.cfg.BoostPrefixMatch > maxMultiplier {
		maxMultiplier = e.cfg.BoostPrefixMatch
	}
	if maxMultiplier < 1 {
		maxMultiplier = 1
	}
	for _, ws := range members {
		remaining -= ws.Weight
		if _, isEdit := ws.Scorer.(similarity.EditDistance); isEdit {
			if (total+ws.Weight+remaining)*maxMultiplier < threshold {
				return nil, 0, false
			}
		}
		s := ws.Scorer.Score(query, target)
		subs[ws.Scorer.Name()] = s
		total += ws.Weight * s
	}
	return subs, total, true
}

// fieldValue resolves a fuzzy target field: the title, the content, or a
// scalar metadata entry.
func (e *Engine) fieldValue(rec *docRecord, field string) string {
	switch field {
	case "title":
		return rec.doc.Title
	case "content":
		return rec.doc.Content
	default:
		if raw, ok := rec.doc.Metadata[field]; ok {
			if v, ok := index.FacetValue(raw); ok {
				return v
			}
		}
		return ""
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
