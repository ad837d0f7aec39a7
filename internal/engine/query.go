package engine

import (
	"regexp"
	"strings"

	"github.com/ravikiranms/hybridsearch/internal/textpipe"
)

var quotedRe = regexp.MustCompile(`"([^"]*)"`)

// phraseQuery is one quoted query phrase. display is the folded raw phrase;
// key addresses the phrase index (normalised terms joined by a space).
type phraseQuery struct {
	display string
	key     string
}

type parsedQuery struct {
	raw     string
	terms   []string
	phrases []phraseQuery
}

// size is the number of query parts, used for the exact-query boost and the
// completeness ratio.
func (p parsedQuery) size() int {
	return len(p.terms) + len(p.phrases)
}

func (p parsedQuery) empty() bool {
	return p.size() == 0
}

// parseQuery extracts quoted substrings as phrases and normalises the
// remainder into terms. A quoted substring that normalises to fewer than two
// terms is demoted to plain terms, since the phrase index holds only bigrams
// and trigrams.
func (e *Engine) parseQuery(query string) parsedQuery {
	pq := parsedQuery{raw: query}
	for _, match := range quotedRe.FindAllStringSubmatch(query, -1) {
		inner := match[1]
		if strings.TrimSpace(inner) == "" {
			continue
		}
		normalized := e.norm.NormalizeText(inner)
		if len(normalized) < 2 {
			pq.terms = append(pq.terms, normalized...)
			continue
		}
		pq.phrases = append(pq.phrases, phraseQuery{
			display: e.norm.Fold(inner),
			key:     strings.Join(normalized, " "),
		})
	}
	remainder := quotedRe.ReplaceAllString(query, " ")
	pq.terms = append(pq.terms, e.norm.Normalize(textpipe.Tokenize(remainder))...)
	return pq
}
