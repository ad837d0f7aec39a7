package index

import "strings"

// phraseSizes are the contiguous n-gram lengths indexed for phrase search.
var phraseSizes = []int{2, 3}

// Phrases maps bigrams and trigrams of normalised terms (joined by a single
// space) to the documents containing them.
type Phrases struct {
	entries    map[string]map[string]int // phrase -> docID -> occurrence count
	docPhrases map[string][]string       // docID -> recorded phrases
}

func NewPhrases() *Phrases {
	return &Phrases{
		entries:    make(map[string]map[string]int),
		docPhrases: make(map[string][]string),
	}
}

// BuildPhrases emits every contiguous bigram and trigram of the token
// sequence.
func BuildPhrases(tokens []string) []string {
	var phrases []string
	for _, n := range phraseSizes {
		for i := 0; i+n <= len(tokens); i++ {
			phrases = append(phrases, strings.Join(tokens[i:i+n], " "))
		}
	}
	return phrases
}

// Add records the document's phrases. The caller must remove any previous
// document with the same id first.
func (p *Phrases) Add(docID string, tokens []string) {
	phrases := BuildPhrases(tokens)
	if len(phrases) == 0 {
		return
	}
	for _, phrase := range phrases {
		entry, ok := p.entries[phrase]
		if !ok {
			entry = make(map[string]int)
			p.entries[phrase] = entry
		}
		entry[docID]++
	}
	p.docPhrases[docID] = phrases
}

// Remove walks the recorded phrases of a document and reverses Add.
func (p *Phrases) Remove(docID string) {
	for _, phrase := range p.docPhrases[docID] {
		entry := p.entries[phrase]
		if entry == nil {
			continue
		}
		entry[docID]--
		if entry[docID] <= 0 {
			delete(entry, docID)
		}
		if len(entry) == 0 {
			delete(p.entries, phrase)
		}
	}
	delete(p.docPhrases, docID)
}

// Lookup returns the posting map for a phrase, or nil. The returned map is
// shared; callers must not mutate it.
func (p *Phrases) Lookup(phrase string) map[string]int {
	return p.entries[phrase]
}

// Len returns the number of distinct indexed phrases.
func (p *Phrases) Len() int {
	return len(p.entries)
}

// Entries calls fn for every phrase with its posting count, stopping early
// when fn returns false.
func (p *Phrases) Entries(fn func(phrase string, docCount int) bool) {
	for phrase, entry := range p.entries {
		if !fn(phrase, len(entry)) {
			return
		}
	}
}

// Reset empties the index.
func (p *Phrases) Reset() {
	p.entries = make(map[string]map[string]int)
	p.docPhrases = make(map[string][]string)
}
