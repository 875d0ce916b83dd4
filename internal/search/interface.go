// Package search finds articles within the page currently on screen. The
// index covers only the last applied article list and is rebuilt wholesale
// whenever that list is replaced.
package search

import "github.com/pders01/pulse/internal/news"

// Searcher defines the minimal search API used by the TUI.
type Searcher interface {
	// Index replaces the searchable articles.
	Index(articles []news.Article) error
	Search(query string, limit int) ([]*Result, error)
}

// DebugStatser provides lightweight stats for visibility/debugging.
type DebugStatser interface {
	DocCount() (int, error)
}

// Result is one matching article. Position is its index in the list passed
// to Index.
type Result struct {
	Position int
	Article  news.Article
	Score    float64
	Matches  []Match
}

// Match represents where text was found
type Match struct {
	Field  string // "title", "description", "source"
	Text   string
	Weight float64
}

// New returns the bleve backed searcher, or the scoring engine when the
// index cannot be created.
func New() Searcher {
	s, err := NewBleveEngine()
	if err != nil {
		return NewEngine()
	}
	return s
}
