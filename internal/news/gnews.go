package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// GNews implements the gnews.io v4 API.
type GNews struct {
	def Definition
}

func NewGNews(def Definition) *GNews {
	return &GNews{def: def}
}

func (g *GNews) Name() string           { return "gnews" }
func (g *GNews) Definition() Definition { return g.def }
func (g *GNews) Categories() []string   { return append([]string(nil), g.def.Categories...) }

func (g *GNews) NewRequest(ctx context.Context, base string, q Query, p Params) (*http.Request, error) {
	v := url.Values{}
	path := g.def.HeadlinesPath
	if q.Endpoint == EndpointSearch {
		path = g.def.SearchPath
		v.Set("q", q.Search)
	} else {
		v.Set("category", q.Category)
	}
	setIfNotEmpty(v, "lang", p.Language)
	v.Set("max", strconv.Itoa(PageSize))
	v.Set("page", strconv.Itoa(q.Page))
	setIfNotEmpty(v, g.def.KeyParam, p.Key)

	return newGetRequest(ctx, base, path, v)
}

type gnewsResponse struct {
	TotalArticles int             `json:"totalArticles"`
	Articles      *[]gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

func (g *GNews) Decode(r io.Reader, _ Query) ([]Article, error) {
	var resp gnewsResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding gnews response: %w", err)
	}
	if resp.Articles == nil {
		return nil, ErrMissingArticles
	}

	articles := make([]Article, 0, len(*resp.Articles))
	for _, a := range *resp.Articles {
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			ImageURL:    a.Image,
			SourceName:  a.Source.Name,
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return articles, nil
}
