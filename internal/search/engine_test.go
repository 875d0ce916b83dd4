package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/pulse/internal/news"
)

func samplePage() []news.Article {
	return []news.Article{
		{Title: "Hello World", Description: "greeting article", URL: "https://example.com/1", SourceName: "Daily"},
		{Title: "Golang Tips", Description: "bleve and search in practice", URL: "https://example.com/2", SourceName: "Gopher Weekly"},
		{Title: "Election results", Description: "Counting continues in the election", URL: "https://example.com/3", SourceName: "Wire"},
	}
}

func TestSearchMinLength(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Index(samplePage()))

	for _, query := range []string{"", "a", "   "} {
		results, err := engine.Search(query, 10)
		assert.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results, "short queries should return empty results")
	}
}

func TestEngineSearch(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Index(samplePage()))

	results, err := engine.Search("golang", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, "Golang Tips", results[0].Article.Title)
	require.NotEmpty(t, results[0].Matches)
	assert.Equal(t, "title", results[0].Matches[0].Field)

	results, err = engine.Search("gopher", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "source", results[0].Matches[0].Field)

	results, err = engine.Search("nothing-here", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestEngineRanksTitleAboveDescription(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Index([]news.Article{
		{Title: "Markets today", Description: "an election may move markets"},
		{Title: "Election night", Description: "live coverage"},
	}))

	results, err := engine.Search("election", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Position)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestEngineLimit(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Index([]news.Article{
		{Title: "news one"}, {Title: "news two"}, {Title: "news three"},
	}))

	results, err := engine.Search("news", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestEngineIndexReplaces(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Index(samplePage()))
	require.NoError(t, engine.Index([]news.Article{{Title: "Only story"}}))

	n, err := engine.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	results, err := engine.Search("golang", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "42"}, tokenize("Hello, World! a 42"))
	assert.Nil(t, tokenize("a b c"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ééé…", truncate("éééééé", 4))
}

func TestFindBestSnippet(t *testing.T) {
	text := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen target eighteen"
	snippet := findBestSnippet(text, []string{"target"}, 80)
	assert.Contains(t, snippet, "target")
	assert.Equal(t, "", findBestSnippet("", []string{"x"}, 40))
}

func TestRecencyBoost(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, recencyBoost(time.Time{}, now))
	assert.Equal(t, 0.0, recencyBoost(now.Add(-48*time.Hour), now))
	assert.InDelta(t, 0.05, recencyBoost(now.Add(-12*time.Hour), now), 1e-9)
	assert.Equal(t, 0.1, recencyBoost(now.Add(time.Hour), now))
}

func TestBleveEngineIndexesAndSearches(t *testing.T) {
	eng, err := NewBleveEngine()
	require.NoError(t, err)
	require.NoError(t, eng.Index(samplePage()))

	res, err := eng.Search("Golang", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	assert.Equal(t, 1, res[0].Position)
	assert.Equal(t, "Golang Tips", res[0].Article.Title)

	res, err = eng.Search("elect", 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res), 1)
	assert.Equal(t, 2, res[0].Position)

	stats, ok := eng.(DebugStatser)
	require.True(t, ok)
	n, err := stats.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, eng.Index(nil))
	n, err = stats.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	res, err = eng.Search("golang", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestNewPrefersBleve(t *testing.T) {
	s := New()
	_, isEngine := s.(*Engine)
	assert.False(t, isEngine)
}
