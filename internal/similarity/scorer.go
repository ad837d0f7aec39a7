// Package similarity implements the string-similarity scorers used by the
// fuzzy search mode: edit-distance, Jaro-Winkler, and n-gram Jaccard. Every
// scorer returns a value in [0,1], scores identical strings as 1, and scores
// a single empty string as 0 (two empty strings score 1).
package similarity

// Scorer computes a similarity in [0,1] between two strings.
type Scorer interface {
	Name() string
	Score(a, b string) float64
}

// Weighted pairs a scorer with its share of the composite score.
type Weighted struct {
	Scorer Scorer
	Weight float64
}

// Composite blends a bag of weighted scorers. Weights are assumed to sum to
// 1; configuration validation normalises them before construction.
type Composite struct {
	scorers []Weighted
}

// NewComposite builds a composite over the given weighted scorers.
func NewComposite(scorers ...Weighted) *Composite {
	return &Composite{scorers: scorers}
}

// Score returns the weighted blend of all member scorers.
func (c *Composite) Score(a, b string) float64 {
	total := 0.0
	for _, ws := range c.scorers {
		total += ws.Weight * ws.Scorer.Score(a, b)
	}
	return total
}

// Breakdown returns the per-scorer sub-scores keyed by scorer name, together
// with the blended total.
func (c *Composite) Breakdown(a, b string) (map[string]float64, float64) {
	subs := make(map[string]float64, len(c.scorers))
	total := 0.0
	for _, ws := range c.scorers {
		s := ws.Scorer.Score(a, b)
		subs[ws.Scorer.Name()] = s
		total += ws.Weight * s
	}
	return subs, total
}

// Members exposes the weighted scorers, in order. The fuzzy engine walks
// them cheapest-first for early termination.
func (c *Composite) Members() []Weighted {
	return c.scorers
}

func emptyCase(a, b string) (float64, bool) {
	if a == b {
		return 1, true
	}
	if len(a) == 0 || len(b) == 0 {
		return 0, true
	}
	return 0, false
}
