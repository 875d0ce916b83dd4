package tui

import (
	"github.com/pders01/pulse/internal/feed"
	"github.com/pders01/pulse/internal/reader"
)

type View int

const (
	ViewFeed View = iota
	ViewSearch
	ViewReader
	ViewFind
)

func (v View) String() string {
	switch v {
	case ViewFeed:
		return "feed"
	case ViewSearch:
		return "search"
	case ViewReader:
		return "reader"
	case ViewFind:
		return "find"
	default:
		return "unknown"
	}
}

// feedLoadedMsg carries a finished request back to the update loop, where
// the controller decides whether it is still current.
type feedLoadedMsg struct {
	result feed.Result
}

type articleExtractedMsg struct {
	url  string
	page *reader.Page
	err  error
}

type statusMsg struct {
	text string
	kind StatusKind
}

type errorMsg struct {
	err error
}
