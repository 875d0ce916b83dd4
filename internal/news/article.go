// Package news speaks to the upstream news aggregation APIs. A Provider turns
// a Query into an HTTP request and decodes the response; Client executes it
// and reduces every failure to a *FetchError.
package news

import (
	"strings"
	"time"
)

// PageSize is the fixed number of articles requested per page.
const PageSize = 12

// PlaceholderImage is shown for articles without an image.
const PlaceholderImage = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?q=80&w=800"

const (
	unknownSource = "Unknown source"
	recent        = "Recent"
)

// Article is a single upstream story. Only Title and URL are guaranteed
// after validation.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	SourceName  string    `json:"sourceName,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

func (a Article) Image() string {
	if a.ImageURL == "" {
		return PlaceholderImage
	}
	return a.ImageURL
}

func (a Article) Source() string {
	if strings.TrimSpace(a.SourceName) == "" {
		return unknownSource
	}
	return a.SourceName
}

// Published renders the publish date, or "Recent" when it is unknown.
func (a Article) Published() string {
	if a.PublishedAt.IsZero() {
		return recent
	}
	return a.PublishedAt.Local().Format("Jan 2, 2006")
}

type Endpoint int

const (
	EndpointHeadlines Endpoint = iota
	EndpointSearch
)

func (e Endpoint) String() string {
	switch e {
	case EndpointHeadlines:
		return "headlines"
	case EndpointSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Query is one upstream request. Category is only meaningful for
// EndpointHeadlines and Search only for EndpointSearch.
type Query struct {
	Endpoint Endpoint
	Category string
	Search   string
	Page     int
}

// Params carries the per-client request parameters that do not depend on
// the filter state.
type Params struct {
	Language string
	Country  string
	Key      string
}

// parseTime accepts the timestamp layouts the upstream APIs use and returns
// the zero time for anything else.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
