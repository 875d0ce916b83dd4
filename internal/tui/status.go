package tui

import (
	"fmt"

	"github.com/pders01/pulse/internal/feed"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

const (
	MsgLoading            = "Loading…"
	MsgLoadingArticle     = "Fetching full text…"
	MsgNoResults          = "No results found"
	MsgNoMatches          = "No matches on this page"
	MsgFullTextFailed     = "Full text unavailable, showing summary"
	MsgEmptySearch        = "Type something to search"
	MsgAlreadyOnFirstPage = "Already on the first page"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// MsgFeedSummary describes what the article list currently shows.
func MsgFeedSummary(f feed.FilterState, n int) string {
	if f.Searching() {
		return fmt.Sprintf("%q • page %d • %s", f.SearchQuery, f.Page, MsgResultsCount(n))
	}
	return fmt.Sprintf("%s • page %d • %s", f.Category, f.Page, MsgResultsCount(n))
}

func (k StatusKind) style() func(...string) string {
	switch k {
	case StatusSuccess:
		return StatusSuccessStyle.Render
	case StatusWarn:
		return StatusWarnStyle.Render
	case StatusError:
		return StatusErrorStyle.Render
	default:
		return StatusInfoStyle.Render
	}
}
