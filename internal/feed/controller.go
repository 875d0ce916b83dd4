// Package feed holds the feed controller: the filter state a user edits, the
// article list last fetched for it, and the rules deciding when to fetch.
package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/news"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/pders01/pulse/internal/feed Fetcher

// DefaultCategory is the category Reset returns to.
const DefaultCategory = "general"

// Fetcher runs one upstream query. *news.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, q news.Query) ([]news.Article, error)
}

// FilterState is the user-controlled selection that determines the next
// request. Page is always >= 1.
type FilterState struct {
	Category    string `json:"category"`
	SearchQuery string `json:"searchQuery"`
	Page        int    `json:"page"`
}

// Searching reports whether requests currently target the search endpoint.
func (f FilterState) Searching() bool {
	return strings.TrimSpace(f.SearchQuery) != ""
}

// FeedState is the displayed result set. It is replaced wholesale on every
// applied result.
type FeedState struct {
	Articles []news.Article `json:"articles"`
	Loading  bool           `json:"loading"`
}

// Ticket identifies one issued request. Seq increases with every Begin.
type Ticket struct {
	Seq   uint64
	Query news.Query
}

// Result is the outcome of executing a Ticket.
type Result struct {
	Ticket
	Articles []news.Article
	Err      error
}

// BuildQuery derives the upstream query for f. A non-blank explicit query
// wins over f.SearchQuery; with no query at all the headlines endpoint is
// used for f.Category.
func BuildQuery(f FilterState, explicit ...string) news.Query {
	q := ""
	if len(explicit) > 0 {
		q = strings.TrimSpace(explicit[0])
	}
	if q == "" {
		q = strings.TrimSpace(f.SearchQuery)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}

	if q != "" {
		return news.Query{Endpoint: news.EndpointSearch, Search: q, Page: page}
	}
	return news.Query{Endpoint: news.EndpointHeadlines, Category: f.Category, Page: page}
}

// Controller owns FilterState and FeedState. Mutating actions return a
// Ticket and true when the change requires a fetch; callers either hand the
// ticket to Run or, in an event loop, call Execute off the loop and Apply on
// it. Only the result of the most recently issued ticket is applied.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	filter  FilterState
	state   FeedState
	seq     uint64
}

// NewController starts in Idle with an empty article list. An empty
// category means DefaultCategory.
func NewController(f Fetcher, category string) *Controller {
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	return &Controller{
		fetcher: f,
		filter:  FilterState{Category: category, Page: 1},
		state:   FeedState{Articles: []news.Article{}},
	}
}

func (c *Controller) Filter() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// State returns a copy of the current FeedState.
func (c *Controller) State() FeedState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() FeedState {
	articles := make([]news.Article, len(c.state.Articles))
	copy(articles, c.state.Articles)
	return FeedState{Articles: articles, Loading: c.state.Loading}
}

// Begin marks the feed as loading and issues a ticket for the current
// filter state.
func (c *Controller) Begin(explicit ...string) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked(explicit...)
}

func (c *Controller) beginLocked(explicit ...string) Ticket {
	c.seq++
	c.state.Loading = true
	return Ticket{Seq: c.seq, Query: BuildQuery(c.filter, explicit...)}
}

// Execute performs the request for t. It does not touch controller state
// and is safe to call from any goroutine.
func (c *Controller) Execute(ctx context.Context, t Ticket) Result {
	articles, err := c.fetcher.Fetch(ctx, t.Query)
	return Result{Ticket: t, Articles: articles, Err: err}
}

// Apply stores r if it belongs to the latest ticket and reports whether it
// did. Failures are logged and leave an empty article list.
func (c *Controller) Apply(r Result) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := debuglog.WithFields(debuglog.Fields{
		"seq":      r.Seq,
		"endpoint": r.Query.Endpoint,
		"page":     r.Query.Page,
	})

	if r.Seq != c.seq {
		log.Debugf("discarding stale result (latest seq=%d)", c.seq)
		return false
	}

	c.state.Loading = false
	if r.Err != nil {
		log.Errorf("fetch failed: %v", r.Err)
		c.state.Articles = []news.Article{}
		return true
	}

	if r.Articles == nil {
		c.state.Articles = []news.Article{}
	} else {
		c.state.Articles = r.Articles
	}
	log.Debugf("applied %d articles", len(c.state.Articles))
	return true
}

// Run executes t and applies its result, returning the resulting FeedState.
func (c *Controller) Run(ctx context.Context, t Ticket) FeedState {
	c.Apply(c.Execute(ctx, t))
	return c.State()
}

// Refresh fetches for the current filter state, or for explicit when it is
// non-blank. It never fails; a failed fetch yields an empty article list.
func (c *Controller) Refresh(ctx context.Context, explicit ...string) FeedState {
	return c.Run(ctx, c.Begin(explicit...))
}

// SetQuery stores the search text as it is typed. It never fetches.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.SearchQuery = q
}

// SubmitSearch runs a search for q from page 1. A blank q is ignored.
func (c *Controller) SubmitSearch(q string) (Ticket, bool) {
	if strings.TrimSpace(q) == "" {
		return Ticket{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.SearchQuery = q
	c.filter.Page = 1
	return c.beginLocked(q), true
}

// SelectCategory switches to category headlines from page 1, leaving any
// search.
func (c *Controller) SelectCategory(category string) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.filter.Category != category || c.filter.Page != 1 || c.filter.Searching()
	c.filter = FilterState{Category: category, Page: 1}
	if !changed {
		return Ticket{}, false
	}
	return c.beginLocked(), true
}

// SetPage moves to page n, clamped to 1.
func (c *Controller) SetPage(n int) (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setPageLocked(n)
}

func (c *Controller) setPageLocked(n int) (Ticket, bool) {
	if n < 1 {
		n = 1
	}
	if n == c.filter.Page {
		return Ticket{}, false
	}
	c.filter.Page = n
	return c.beginLocked(), true
}

func (c *Controller) NextPage() (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setPageLocked(c.filter.Page + 1)
}

func (c *Controller) PrevPage() (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setPageLocked(c.filter.Page - 1)
}

// Reset returns to general headlines, page 1, and always fetches.
func (c *Controller) Reset() Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = FilterState{Category: DefaultCategory, Page: 1}
	return c.beginLocked()
}
