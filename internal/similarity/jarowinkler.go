package similarity

// JaroWinkler scores strings by Jaro similarity with a Winkler prefix bonus.
// The bonus applies only when the Jaro score is at least 0.7, rewarding up to
// four matching leading characters scaled by PrefixScale.
type JaroWinkler struct {
	// PrefixScale is the Winkler scale p; 0 selects the standard 0.1.
	PrefixScale float64
}

const (
	jaroBonusThreshold = 0.7
	maxPrefixLength    = 4
)

func (JaroWinkler) Name() string { return "jaro_winkler" }

func (jw JaroWinkler) Score(a, b string) float64 {
	if s, done := emptyCase(a, b); done {
		return s
	}
	jaro := jaroSimilarity([]rune(a), []rune(b))
	if jaro < jaroBonusThreshold {
		return jaro
	}
	scale := jw.PrefixScale
	if scale == 0 {
		scale = 0.1
	}
	prefix := commonPrefixLength(a, b)
	if prefix > maxPrefixLength {
		prefix = maxPrefixLength
	}
	return jaro + float64(prefix)*scale*(1-jaro)
}

func jaroSimilarity(ra, rb []rune) float64 {
	window := len(ra)
	if len(rb) > window {
		window = len(rb)
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(ra))
	bMatched := make([]bool, len(rb))
	matches := 0
	for i, ca := range ra {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len(rb) {
			hi = len(rb)
		}
		for j := lo; j < hi; j++ {
			if bMatched[j] || rb[j] != ca {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	// Transpositions: matched characters that disagree when both match
	// lists are walked in order.
	transpositions := 0
	j := 0
	for i := range ra {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-t)/m) / 3
}

func commonPrefixLength(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	count := 0
	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			break
		}
		count++
	}
	return count
}
