// Package index holds the engine's in-memory index structures: the inverted
// term index, the phrase index, the facet index, and the TF-IDF document
// vector store. None of the types lock internally; the engine serialises
// access to them.
package index

// Inverted maps each term to the documents containing it with per-document
// frequencies, and maintains per-document lengths and corpus totals.
type Inverted struct {
	postings  map[string]map[string]int // term -> docID -> frequency
	docTerms  map[string]map[string]int // docID -> term -> frequency
	docLength map[string]int
	totalDocs int
	// totalTerms is the sum of all document lengths.
	totalTerms int64
}

func NewInverted() *Inverted {
	return &Inverted{
		postings:  make(map[string]map[string]int),
		docTerms:  make(map[string]map[string]int),
		docLength: make(map[string]int),
	}
}

// Add indexes a document given its term-count map and length. The caller must
// remove any previous document with the same id first.
func (inv *Inverted) Add(docID string, termCounts map[string]int, docLen int) {
	stored := make(map[string]int, len(termCounts))
	for term, count := range termCounts {
		entry, ok := inv.postings[term]
		if !ok {
			entry = make(map[string]int)
			inv.postings[term] = entry
		}
		entry[docID] = count
		stored[term] = count
	}
	inv.docTerms[docID] = stored
	inv.docLength[docID] = docLen
	inv.totalDocs++
	inv.totalTerms += int64(docLen)
}

// Remove deletes a document from every posting set, dropping terms whose
// posting set becomes empty. It reports whether the document existed.
func (inv *Inverted) Remove(docID string) bool {
	terms, ok := inv.docTerms[docID]
	if !ok {
		return false
	}
	for term := range terms {
		entry := inv.postings[term]
		delete(entry, docID)
		if len(entry) == 0 {
			delete(inv.postings, term)
		}
	}
	inv.totalDocs--
	inv.totalTerms -= int64(inv.docLength[docID])
	delete(inv.docTerms, docID)
	delete(inv.docLength, docID)
	return true
}

// Lookup returns the posting map (docID -> frequency) for a term, or nil.
// The returned map is shared; callers must not mutate it.
func (inv *Inverted) Lookup(term string) map[string]int {
	return inv.postings[term]
}

// DocFreq returns the number of documents containing the term.
func (inv *Inverted) DocFreq(term string) int {
	return len(inv.postings[term])
}

// TermFrequency returns the occurrence count of term in doc, or 0.
func (inv *Inverted) TermFrequency(term, docID string) int {
	return inv.postings[term][docID]
}

// DocTerms returns the term-count map of one document, or nil.
func (inv *Inverted) DocTerms(docID string) map[string]int {
	return inv.docTerms[docID]
}

// DocLength returns the post-normalisation token count of a document.
func (inv *Inverted) DocLength(docID string) int {
	return inv.docLength[docID]
}

// TotalDocs returns the live document count.
func (inv *Inverted) TotalDocs() int {
	return inv.totalDocs
}

// TotalTerms returns the sum of all document lengths.
func (inv *Inverted) TotalTerms() int64 {
	return inv.totalTerms
}

// UniqueTerms returns the number of distinct terms in the index.
func (inv *Inverted) UniqueTerms() int {
	return len(inv.postings)
}

// AvgDocLength returns the mean document length, or 0 for an empty corpus.
func (inv *Inverted) AvgDocLength() float64 {
	if inv.totalDocs == 0 {
		return 0
	}
	return float64(inv.totalTerms) / float64(inv.totalDocs)
}

// Terms calls fn for every term with its posting count, stopping early when
// fn returns false.
func (inv *Inverted) Terms(fn func(term string, docCount int) bool) {
	for term, entry := range inv.postings {
		if !fn(term, len(entry)) {
			return
		}
	}
}

// Reset empties the index.
func (inv *Inverted) Reset() {
	inv.postings = make(map[string]map[string]int)
	inv.docTerms = make(map[string]map[string]int)
	inv.docLength = make(map[string]int)
	inv.totalDocs = 0
	inv.totalTerms = 0
}
