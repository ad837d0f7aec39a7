package index

import (
	"fmt"
	"strconv"
	"strings"
)

// Facets maps (facet name, folded value) pairs to document sets for
// filtering. Only scalar metadata values are indexed.
type Facets struct {
	values    map[string]map[string]map[string]struct{} // name -> value -> docID set
	docFacets map[string]map[string]string              // docID -> name -> folded value
}

func NewFacets() *Facets {
	return &Facets{
		values:    make(map[string]map[string]map[string]struct{}),
		docFacets: make(map[string]map[string]string),
	}
}

// FacetValue folds a scalar metadata value for indexing. Non-scalar values
// (slices, maps, structs) are rejected.
func FacetValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.ToLower(t), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case fmt.Stringer:
		return strings.ToLower(t.String()), true
	default:
		return "", false
	}
}

// Add indexes the scalar entries of a document's metadata.
func (f *Facets) Add(docID string, metadata map[string]any) {
	recorded := make(map[string]string)
	for name, raw := range metadata {
		value, ok := FacetValue(raw)
		if !ok {
			continue
		}
		byValue, ok := f.values[name]
		if !ok {
			byValue = make(map[string]map[string]struct{})
			f.values[name] = byValue
		}
		docSet, ok := byValue[value]
		if !ok {
			docSet = make(map[string]struct{})
			byValue[value] = docSet
		}
		docSet[docID] = struct{}{}
		recorded[name] = value
	}
	if len(recorded) > 0 {
		f.docFacets[docID] = recorded
	}
}

// Remove mirrors Add, deleting empty leaves.
func (f *Facets) Remove(docID string) {
	for name, value := range f.docFacets[docID] {
		byValue := f.values[name]
		if byValue == nil {
			continue
		}
		docSet := byValue[value]
		delete(docSet, docID)
		if len(docSet) == 0 {
			delete(byValue, value)
		}
		if len(byValue) == 0 {
			delete(f.values, name)
		}
	}
	delete(f.docFacets, docID)
}

// Lookup returns the document set for a (name, value) pair; the value is
// folded before lookup. The returned map is shared; callers must not mutate
// it.
func (f *Facets) Lookup(name, value string) map[string]struct{} {
	byValue := f.values[name]
	if byValue == nil {
		return nil
	}
	return byValue[strings.ToLower(value)]
}

// Has reports whether the facet name is indexed at all.
func (f *Facets) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// DocFacets returns the folded facet values recorded for a document.
func (f *Facets) DocFacets(docID string) map[string]string {
	return f.docFacets[docID]
}

// Counts reports every active facet as name -> value -> document count.
func (f *Facets) Counts() map[string]map[string]int {
	out := make(map[string]map[string]int, len(f.values))
	for name, byValue := range f.values {
		counts := make(map[string]int, len(byValue))
		for value, docSet := range byValue {
			counts[value] = len(docSet)
		}
		out[name] = counts
	}
	return out
}

// Len returns the number of distinct facet names.
func (f *Facets) Len() int {
	return len(f.values)
}

// Reset empties the index.
func (f *Facets) Reset() {
	f.values = make(map[string]map[string]map[string]struct{})
	f.docFacets = make(map[string]map[string]string)
}
