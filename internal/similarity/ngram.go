package similarity

import "strings"

// NGram scores strings by Jaccard similarity over character n-grams, blending
// bigrams, trigrams, and 4-grams. Grams are taken over the lower-cased
// strings; sizes longer than either string are dropped and the remaining
// blend weights renormalised.
type NGram struct{}

// gramSizes and gramWeights define the blended gram lengths.
var (
	gramSizes   = []int{2, 3, 4}
	gramWeights = []float64{0.3, 0.5, 0.2}
)

func (NGram) Name() string { return "ngram" }

func (g NGram) Score(a, b string) float64 {
	if s, done := emptyCase(a, b); done {
		return s
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	minLen := len([]rune(la))
	if n := len([]rune(lb)); n < minLen {
		minLen = n
	}

	total := 0.0
	weightSum := 0.0
	for i, n := range gramSizes {
		if minLen < n {
			continue
		}
		total += gramWeights[i] * jaccard(grams(la, n), grams(lb, n))
		weightSum += gramWeights[i]
	}
	if weightSum == 0 {
		// Both strings shorter than the smallest gram: fall back to
		// exact comparison on the folded forms.
		if la == lb {
			return 1
		}
		return 0
	}
	return total / weightSum
}

// Common returns the number of distinct n-grams shared by a and b, used by
// the fuzzy match-details record.
func Common(a, b string, n int) int {
	ga := grams(strings.ToLower(a), n)
	gb := grams(strings.ToLower(b), n)
	count := 0
	for g := range ga {
		if _, ok := gb[g]; ok {
			count++
		}
	}
	return count
}

func grams(s string, n int) map[string]struct{} {
	runes := []rune(s)
	set := make(map[string]struct{})
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
