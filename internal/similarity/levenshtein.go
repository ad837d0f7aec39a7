package similarity

// EditDistance scores strings by normalised Levenshtein distance:
// (maxLen - distance) / maxLen. Insertions, deletions, and substitutions
// each cost 1.
type EditDistance struct{}

func (EditDistance) Name() string { return "edit_distance" }

func (e EditDistance) Score(a, b string) float64 {
	if s, done := emptyCase(a, b); done {
		return s
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	dist := Distance(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// Distance returns the Levenshtein distance between a and b using two
// rolling rows, keeping space at O(min(m,n)).
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
