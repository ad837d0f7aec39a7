package engine

import (
	"sort"
	"strings"
)

// minSuggestPrefix is the shortest prefix that yields suggestions.
const minSuggestPrefix = 2

type suggestion struct {
	text  string
	count int
}

// suggestLocked collects indexed terms and phrases whose folded form strictly
// extends the folded prefix, ranked by descending posting count with an
// alphabetical tie-break. Caller holds at least the read lock.
func (e *Engine) suggestLocked(prefix string, limit int) []string {
	folded := e.norm.Fold(strings.TrimSpace(prefix))
	if len([]rune(folded)) < minSuggestPrefix {
		return nil
	}
	if limit <= 0 {
		limit = e.cfg.MaxResults
	}

	var matches []suggestion
	e.inv.Terms(func(term string, docCount int) bool {
		if term != folded && strings.HasPrefix(term, folded) {
			matches = append(matches, suggestion{text: term, count: docCount})
		}
		return true
	})
	if e.cfg.EnablePhrase {
		e.phrases.Entries(func(phrase string, docCount int) bool {
			if phrase != folded && strings.HasPrefix(phrase, folded) {
				matches = append(matches, suggestion{text: phrase, count: docCount})
			}
			return true
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].count != matches[j].count {
			return matches[i].count > matches[j].count
		}
		return matches[i].text < matches[j].text
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.text
	}
	return out
}
