package engine

import (
	"regexp"
	"strings"
	"unicode"
)

// enrich fills the snippet, highlight, and facet fields of a result.
func (e *Engine) enrich(res *Result, pq parsedQuery) {
	res.Snippet = e.snippet(res.Content, pq.terms)
	res.Highlighted = e.highlight(res.Content, pq.terms)
	if e.cfg.EnableFacets {
		if facets := e.facets.DocFacets(res.DocID); len(facets) > 0 {
			copied := make(map[string]string, len(facets))
			for name, value := range facets {
				copied[name] = value
			}
			res.Facets = copied
		}
	}
}

// snippet returns a window of the original content centred on the earliest
// case-insensitive occurrence of any query term, with ellipses at cut
// boundaries. Without a match it returns the content prefix.
func (e *Engine) snippet(content string, terms []string) string {
	width := e.cfg.SnippetLength
	runes := []rune(content)
	if len(runes) <= width {
		return content
	}

	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	pos := -1
	for _, term := range terms {
		if idx := runeIndex(lower, []rune(strings.ToLower(term))); idx >= 0 {
			if pos == -1 || idx < pos {
				pos = idx
			}
		}
	}
	if pos == -1 {
		return string(runes[:width]) + "..."
	}

	start := pos - width/2
	if start < 0 {
		start = 0
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
		start = end - width
		if start < 0 {
			start = 0
		}
	}
	out := string(runes[start:end])
	if start > 0 {
		out = "..." + out
	}
	if end < len(runes) {
		out = out + "..."
	}
	return out
}

// highlight wraps every whole-word occurrence of any query term in the
// configured markers.
func (e *Engine) highlight(content string, terms []string) string {
	if len(terms) == 0 {
		return content
	}
	quoted := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	if len(quoted) == 0 {
		return content
	}
	re, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return content
	}
	return re.ReplaceAllString(content, e.cfg.HighlightPre+"$1"+e.cfg.HighlightPost)
}

// runeIndex finds the first occurrence of needle in haystack as a rune
// offset, or -1.
func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
