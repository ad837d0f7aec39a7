// Package textpipe provides the text pipeline for the search engine:
// tokenisation, case folding, Unicode NFD normalisation with accent
// stripping, stop-word removal, and minimum-length filtering.
package textpipe

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text on ASCII whitespace and sentence punctuation and
// drops empty tokens. It performs no folding; pair it with a Normalizer.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, isDelimiter)
}

func isDelimiter(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', ';', ':', '!', '?', '(', ')', '[', ']', '{', '}', '\'', '"':
		return true
	}
	return false
}

// Options controls normalisation behaviour. The zero value keeps case, skips
// Unicode normalisation, and applies no stop-word or length filtering.
type Options struct {
	CaseSensitive    bool
	NormalizeUnicode bool
	RemoveAccents    bool
	MinTermLength    int
	StopWords        []string
}

// Normalizer turns raw tokens into index terms. It is pure and safe for
// concurrent use once constructed.
type Normalizer struct {
	opts      Options
	stopWords map[string]struct{}

	// A transform chain keeps internal buffers between Reset and Transform,
	// so one chain must never be shared across goroutines. The pool hands
	// each caller its own.
	strippers *sync.Pool
}

// NewNormalizer builds a Normalizer. A nil StopWords slice selects the
// default English stop-word list; an empty non-nil slice disables stop-word
// removal.
func NewNormalizer(opts Options) *Normalizer {
	n := &Normalizer{opts: opts}
	words := opts.StopWords
	if words == nil {
		words = defaultStopWords
	}
	n.stopWords = make(map[string]struct{}, len(words))
	for _, w := range words {
		n.stopWords[strings.ToLower(w)] = struct{}{}
	}
	if opts.NormalizeUnicode || opts.RemoveAccents {
		n.strippers = &sync.Pool{New: func() any {
			// NFD splits precomposed characters, then combining marks are
			// removed and the result recomposed.
			return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		}}
	}
	return n
}

// Normalize applies, in order: case folding, NFD decomposition with
// combining-mark stripping, minimum-length filtering, and stop-word removal.
// It is idempotent on already-normalised input.
func (n *Normalizer) Normalize(tokens []string) []string {
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		term := n.normalizeOne(tok)
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// NormalizeText tokenizes and normalises text in one step.
func (n *Normalizer) NormalizeText(text string) []string {
	return n.Normalize(Tokenize(text))
}

// Fold applies case folding and accent stripping to a single string without
// tokenising it. Used for phrase and facet values.
func (n *Normalizer) Fold(s string) string {
	if !n.opts.CaseSensitive {
		s = strings.ToLower(s)
	}
	if n.strippers != nil {
		t := n.strippers.Get().(transform.Transformer)
		if out, _, err := transform.String(t, s); err == nil {
			s = out
		}
		n.strippers.Put(t)
	}
	return s
}

func (n *Normalizer) normalizeOne(tok string) string {
	term := n.Fold(tok)
	if len([]rune(term)) < n.opts.MinTermLength {
		return ""
	}
	if _, stop := n.stopWords[term]; stop {
		return ""
	}
	return term
}
