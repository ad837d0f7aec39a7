package index

import "math"

// Vectors stores per-document L2-normalised TF-IDF vectors. A vector is
// rebuilt when its document is (re-)added; vectors of other documents are not
// recomputed when the corpus changes, trading mild staleness for cheap
// writes.
type Vectors struct {
	vectors map[string]map[string]float64
}

func NewVectors() *Vectors {
	return &Vectors{
		vectors: make(map[string]map[string]float64),
	}
}

// Rebuild computes the document's TF-IDF vector from its term counts and the
// current corpus statistics. Components are (tf/len)·log(N/df), then the
// vector is divided by its Euclidean norm.
func (v *Vectors) Rebuild(docID string, termCounts map[string]int, docLen, totalDocs int, docFreq func(term string) int) {
	if docLen == 0 || totalDocs == 0 {
		delete(v.vectors, docID)
		return
	}
	vec := make(map[string]float64, len(termCounts))
	sumSquares := 0.0
	for term, count := range termCounts {
		df := docFreq(term)
		if df == 0 {
			continue
		}
		idf := math.Log(float64(totalDocs) / float64(df))
		w := (float64(count) / float64(docLen)) * idf
		if w == 0 {
			continue
		}
		vec[term] = w
		sumSquares += w * w
	}
	if len(vec) == 0 || sumSquares == 0 {
		delete(v.vectors, docID)
		return
	}
	norm := math.Sqrt(sumSquares)
	for term := range vec {
		vec[term] /= norm
	}
	v.vectors[docID] = vec
}

// Get returns the vector for a document, or nil. The returned map is shared;
// callers must not mutate it.
func (v *Vectors) Get(docID string) map[string]float64 {
	return v.vectors[docID]
}

// Remove deletes a document's vector.
func (v *Vectors) Remove(docID string) {
	delete(v.vectors, docID)
}

// Cosine returns the cosine similarity of two stored vectors. Both are
// already unit length, so this is a plain dot product.
func (v *Vectors) Cosine(a, b string) float64 {
	va, vb := v.vectors[a], v.vectors[b]
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}
	if len(vb) < len(va) {
		va, vb = vb, va
	}
	dot := 0.0
	for term, w := range va {
		dot += w * vb[term]
	}
	return dot
}

// Reset empties the store.
func (v *Vectors) Reset() {
	v.vectors = make(map[string]map[string]float64)
}
