package news

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// GoogleNews reads the keyless Google News RSS feeds. The feeds have no
// paging parameter, so Decode returns the PageSize window for q.Page.
type GoogleNews struct {
	def    Definition
	parser *gofeed.Parser
}

func NewGoogleNews(def Definition) *GoogleNews {
	return &GoogleNews{
		def:    def,
		parser: gofeed.NewParser(),
	}
}

func (g *GoogleNews) Name() string           { return "googlenews" }
func (g *GoogleNews) Definition() Definition { return g.def }
func (g *GoogleNews) Categories() []string   { return append([]string(nil), g.def.Categories...) }

func (g *GoogleNews) NewRequest(ctx context.Context, base string, q Query, p Params) (*http.Request, error) {
	v := url.Values{}
	path := ""
	switch {
	case q.Endpoint == EndpointSearch:
		path = g.def.SearchPath
		v.Set("q", q.Search)
	case q.Category != "" && q.Category != "general":
		path = g.def.HeadlinesPath + "/" + strings.ToUpper(q.Category)
	}

	lang := p.Language
	if lang == "" {
		lang = "en"
	}
	country := strings.ToUpper(p.Country)
	if country == "" {
		country = "US"
	}
	v.Set("hl", lang+"-"+country)
	v.Set("gl", country)
	v.Set("ceid", country+":"+lang)
	setIfNotEmpty(v, g.def.KeyParam, p.Key)

	req, err := newGetRequest(ctx, base, path, v)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")
	return req, nil
}

func (g *GoogleNews) Decode(r io.Reader, q Query) ([]Article, error) {
	feed, err := g.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	start, end := pageWindow(len(feed.Items), q.Page)
	articles := make([]Article, 0, end-start)
	for _, item := range feed.Items[start:end] {
		title, source := splitSource(item.Title)
		article := Article{
			Title:       title,
			Description: stripHTML(item.Description),
			URL:         item.Link,
			ImageURL:    itemImage(item),
			SourceName:  source,
		}
		if item.PublishedParsed != nil {
			article.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// pageWindow returns the [start, end) bounds of page within n items.
func pageWindow(n, page int) (int, int) {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= n {
		return n, n
	}
	end := start + PageSize
	if end > n {
		end = n
	}
	return start, end
}

// splitSource separates the "Headline - Publisher" form Google News uses.
func splitSource(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

func stripHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(html.UnescapeString(s), "\u00a0", " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enclosure := range item.Enclosures {
		if enclosure.URL != "" && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}
	return ""
}
