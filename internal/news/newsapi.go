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

// removedMarker replaces the fields of articles NewsAPI has taken down.
const removedMarker = "[Removed]"

// NewsAPI implements the newsapi.org v2 API. Its headlines endpoint filters
// by country rather than language.
type NewsAPI struct {
	def Definition
}

func NewNewsAPI(def Definition) *NewsAPI {
	return &NewsAPI{def: def}
}

func (n *NewsAPI) Name() string           { return "newsapi" }
func (n *NewsAPI) Definition() Definition { return n.def }
func (n *NewsAPI) Categories() []string   { return append([]string(nil), n.def.Categories...) }

func (n *NewsAPI) NewRequest(ctx context.Context, base string, q Query, p Params) (*http.Request, error) {
	v := url.Values{}
	path := n.def.HeadlinesPath
	if q.Endpoint == EndpointSearch {
		path = n.def.SearchPath
		v.Set("q", q.Search)
		setIfNotEmpty(v, "language", p.Language)
	} else {
		v.Set("category", q.Category)
		setIfNotEmpty(v, "country", p.Country)
	}
	v.Set("pageSize", strconv.Itoa(PageSize))
	v.Set("page", strconv.Itoa(q.Page))
	setIfNotEmpty(v, n.def.KeyParam, p.Key)

	return newGetRequest(ctx, base, path, v)
}

type newsapiResponse struct {
	Status       string            `json:"status"`
	TotalResults int               `json:"totalResults"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	Articles     *[]newsapiArticle `json:"articles"`
}

type newsapiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (n *NewsAPI) Decode(r io.Reader, _ Query) ([]Article, error) {
	var resp newsapiResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding newsapi response: %w", err)
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("newsapi %s: %s", resp.Code, resp.Message)
	}
	if resp.Articles == nil {
		return nil, ErrMissingArticles
	}

	articles := make([]Article, 0, len(*resp.Articles))
	for _, a := range *resp.Articles {
		if a.Title == removedMarker {
			continue
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			Content:     a.Content,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			SourceName:  a.Source.Name,
			PublishedAt: parseTime(a.PublishedAt),
		})
	}
	return articles, nil
}
