package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Approximate name lookup across typos.
func TestFuzzyNameMatch(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("u1", Document{Content: "John Smith"}))
	require.NoError(t, e.AddDocument("u2", Document{Content: "Jane Doe"}))
	require.NoError(t, e.AddDocument("u3", Document{Content: "Bob Johnson"}))

	results, err := e.Search("Jon Smith", SearchOptions{
		Mode:      ModeFuzzy,
		Threshold: 0.5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, "u1", top.DocID)
	require.NotNil(t, top.SubScores)
	assert.GreaterOrEqual(t, top.SubScores.EditDistance, 0.8)
	require.NotNil(t, top.MatchDetails)
	assert.Equal(t, "content", top.MatchDetails.Field)
	assert.Equal(t, 1, top.MatchDetails.EditDistance)
}

func TestFuzzyExactMatchBoost(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{Content: "alpha"}))

	results, err := e.Search("alpha", SearchOptions{Mode: ModeFuzzy})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	require.NotNil(t, res.MatchDetails)
	assert.True(t, res.MatchDetails.Exact)
	assert.False(t, res.MatchDetails.Prefix)
	assert.False(t, res.MatchDetails.Substring)
	assert.Equal(t, 0, res.MatchDetails.EditDistance)
	assert.InDelta(t, 1.5, res.Score, 1e-9, "identical strings score 1.0 times the exact multiplier")
}

func TestFuzzyPrefixAndSubstringFlags(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("pre", Document{Content: "alphabet"}))
	require.NoError(t, e.AddDocument("sub", Document{Content: "the alphabet book"}))

	results, err := e.Search("alpha", SearchOptions{Mode: ModeFuzzy, Threshold: 0.2})
	require.NoError(t, err)

	byID := map[string]Result{}
	for _, r := range results {
		byID[r.DocID] = r
	}
	if r, ok := byID["pre"]; assert.True(t, ok) {
		assert.True(t, r.MatchDetails.Prefix)
		assert.False(t, r.MatchDetails.Exact)
	}
	if r, ok := byID["sub"]; ok {
		assert.True(t, r.MatchDetails.Substring)
		assert.False(t, r.MatchDetails.Prefix)
	}
}

func TestFuzzyThresholdExcludes(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{Content: "completely unrelated prose"}))

	results, err := e.Search("zzzqqq", SearchOptions{Mode: ModeFuzzy, Threshold: 0.9})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFuzzyEmptyQuery(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{Content: "anything"}))

	results, err := e.Search("   ", SearchOptions{Mode: ModeFuzzy})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFuzzyFieldRestriction(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{
		Title:   "zebra patterns",
		Content: "completely different words",
	}))

	results, err := e.Search("zebra patterns", SearchOptions{
		Mode:   ModeFuzzy,
		Fields: []string{"title"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "title", results[0].MatchDetails.Field)

	results, err = e.Search("zebra patterns", SearchOptions{
		Mode:   ModeFuzzy,
		Fields: []string{"content"},
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFuzzyMetadataField(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{
		Content:  "body text",
		Metadata: map[string]any{"author": "Hermann Hesse"},
	}))

	results, err := e.Search("herman hesse", SearchOptions{
		Mode:      ModeFuzzy,
		Fields:    []string{"author"},
		Threshold: 0.5,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "author", results[0].MatchDetails.Field)
}

func TestFuzzyWithFilters(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{
		Content:  "John Smith",
		Metadata: map[string]any{"team": "core"},
	}))
	require.NoError(t, e.AddDocument("2", Document{
		Content:  "John Smith",
		Metadata: map[string]any{"team": "infra"},
	}))

	results, err := e.Search("john smith", SearchOptions{
		Mode:    ModeFuzzy,
		Filters: map[string][]string{"team": {"infra"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].DocID)
}

func TestFuzzyDeterministicTieBreak(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("b", Document{Content: "identical text"}))
	require.NoError(t, e.AddDocument("a", Document{Content: "identical text"}))
	require.NoError(t, e.AddDocument("c", Document{Content: "identical text"}))

	results, err := e.Search("identical text", SearchOptions{Mode: ModeFuzzy})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].DocID)
	assert.Equal(t, "b", results[1].DocID)
	assert.Equal(t, "c", results[2].DocID)
}

func TestFuzzySubScoreRanges(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{Content: "approximate matching"}))

	results, err := e.Search("aproximate matchin", SearchOptions{Mode: ModeFuzzy, Threshold: 0.1})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	subs := results[0].SubScores
	require.NotNil(t, subs)
	for name, v := range map[string]float64{
		"edit":  subs.EditDistance,
		"jaro":  subs.JaroWinkler,
		"ngram": subs.NGram,
	} {
		assert.GreaterOrEqual(t, v, 0.0, name)
		assert.LessOrEqual(t, v, 1.0, name)
	}
}

func TestKeywordModeOmitsFuzzyDetails(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.AddDocument("1", Document{Content: "keyword body"}))

	results, err := e.Search("keyword", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].SubScores)
	assert.Nil(t, results[0].MatchDetails)
}
