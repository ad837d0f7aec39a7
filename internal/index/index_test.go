package index

import (
	"math"
	"reflect"
	"testing"
)

func TestInvertedAddRemove(t *testing.T) {
	inv := NewInverted()
	inv.Add("doc1", map[string]int{"go": 2, "search": 1}, 3)
	inv.Add("doc2", map[string]int{"search": 3}, 3)

	if inv.TotalDocs() != 2 {
		t.Fatalf("TotalDocs = %d, want 2", inv.TotalDocs())
	}
	if inv.TotalTerms() != 6 {
		t.Fatalf("TotalTerms = %d, want 6", inv.TotalTerms())
	}
	if inv.DocFreq("search") != 2 {
		t.Errorf("DocFreq(search) = %d, want 2", inv.DocFreq("search"))
	}
	if inv.TermFrequency("go", "doc1") != 2 {
		t.Errorf("TermFrequency(go, doc1) = %d, want 2", inv.TermFrequency("go", "doc1"))
	}

	if !inv.Remove("doc1") {
		t.Fatal("Remove(doc1) = false, want true")
	}
	if inv.Remove("doc1") {
		t.Fatal("second Remove(doc1) = true, want false")
	}
	// "go" appeared only in doc1; its posting entry must be gone.
	if inv.Lookup("go") != nil {
		t.Error("term with empty posting set retained")
	}
	if inv.DocFreq("search") != 1 {
		t.Errorf("DocFreq(search) after removal = %d, want 1", inv.DocFreq("search"))
	}
	if inv.TotalDocs() != 1 || inv.TotalTerms() != 3 {
		t.Errorf("corpus stats after removal = (%d, %d), want (1, 3)", inv.TotalDocs(), inv.TotalTerms())
	}
}

func TestInvertedDocLengthInvariant(t *testing.T) {
	inv := NewInverted()
	counts := map[string]int{"alpha": 2, "beta": 1, "gamma": 4}
	docLen := 0
	for _, c := range counts {
		docLen += c
	}
	inv.Add("doc1", counts, docLen)

	sum := 0
	for _, c := range inv.DocTerms("doc1") {
		sum += c
	}
	if sum != inv.DocLength("doc1") {
		t.Errorf("doc length %d != frequency sum %d", inv.DocLength("doc1"), sum)
	}
}

func TestBuildPhrases(t *testing.T) {
	got := BuildPhrases([]string{"async", "programming", "patterns"})
	want := []string{"async programming", "programming patterns", "async programming patterns"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildPhrases = %v, want %v", got, want)
	}
	if BuildPhrases([]string{"solo"}) != nil {
		t.Error("single token should produce no phrases")
	}
}

func TestPhrasesAddRemove(t *testing.T) {
	p := NewPhrases()
	p.Add("doc1", []string{"quick", "brown", "fox"})
	p.Add("doc2", []string{"quick", "brown", "dog"})

	entry := p.Lookup("quick brown")
	if len(entry) != 2 {
		t.Fatalf("Lookup(quick brown) has %d docs, want 2", len(entry))
	}
	p.Remove("doc1")
	if len(p.Lookup("quick brown")) != 1 {
		t.Errorf("after removal Lookup(quick brown) has %d docs, want 1", len(p.Lookup("quick brown")))
	}
	if p.Lookup("brown fox") != nil {
		t.Error("phrase unique to removed doc retained")
	}
}

func TestFacetsAddRemove(t *testing.T) {
	f := NewFacets()
	f.Add("p1", map[string]any{"category": "Electronics", "brand": "A", "stock": 10})
	f.Add("p2", map[string]any{"category": "Clothing", "brand": "B"})
	f.Add("p3", map[string]any{"category": "electronics", "tags": []string{"skip"}})

	set := f.Lookup("category", "ELECTRONICS")
	if len(set) != 2 {
		t.Fatalf("Lookup(category, electronics) has %d docs, want 2", len(set))
	}
	if f.Lookup("tags", "skip") != nil {
		t.Error("non-scalar metadata value indexed")
	}
	if len(f.Lookup("stock", "10")) != 1 {
		t.Error("integer facet value not indexed")
	}

	f.Remove("p2")
	counts := f.Counts()
	if _, ok := counts["category"]["clothing"]; ok {
		t.Error("empty facet leaf retained after removal")
	}
	if counts["category"]["electronics"] != 2 {
		t.Errorf("category=electronics count = %d, want 2", counts["category"]["electronics"])
	}
}

func TestVectorsNormalised(t *testing.T) {
	inv := NewInverted()
	inv.Add("doc1", map[string]int{"alpha": 2, "beta": 1}, 3)
	inv.Add("doc2", map[string]int{"beta": 1, "gamma": 1}, 2)

	vecs := NewVectors()
	vecs.Rebuild("doc1", inv.DocTerms("doc1"), inv.DocLength("doc1"), inv.TotalDocs(), inv.DocFreq)

	vec := vecs.Get("doc1")
	if vec == nil {
		t.Fatal("vector missing")
	}
	sumSquares := 0.0
	for _, w := range vec {
		sumSquares += w * w
	}
	if math.Abs(math.Sqrt(sumSquares)-1) > 1e-9 {
		t.Errorf("vector magnitude = %v, want 1", math.Sqrt(sumSquares))
	}
	// "beta" appears in both docs: idf = log(2/2) = 0, so it contributes no
	// component.
	if _, ok := vec["beta"]; ok {
		t.Error("zero-idf term stored in vector")
	}
}

func TestVectorsCosine(t *testing.T) {
	inv := NewInverted()
	// "common" occurs in every document, so its idf is zero everywhere.
	inv.Add("a", map[string]int{"x": 1, "common": 1}, 2)
	inv.Add("b", map[string]int{"y": 1, "common": 1}, 2)
	inv.Add("c", map[string]int{"x": 1, "common": 1}, 2)

	vecs := NewVectors()
	for _, id := range []string{"a", "b", "c"} {
		vecs.Rebuild(id, inv.DocTerms(id), inv.DocLength(id), inv.TotalDocs(), inv.DocFreq)
	}
	if sim := vecs.Cosine("a", "c"); sim <= 0 {
		t.Errorf("Cosine(a, c) = %v, want > 0 (shared term x)", sim)
	}
	if sim := vecs.Cosine("a", "b"); sim != 0 {
		t.Errorf("Cosine(a, b) = %v, want 0 (only zero-idf overlap)", sim)
	}
}
