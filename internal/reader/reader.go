// Package reader extracts the readable text of an article page and renders
// it as markdown for the terminal.
package reader

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	readability "github.com/go-shiori/go-readability"

	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/news"
	"github.com/pders01/pulse/internal/validation"
)

const defaultTimeout = 20 * time.Second

// Page is the extracted readable part of an article page.
type Page struct {
	Title    string
	Byline   string
	SiteName string
	Excerpt  string
	Text     string
	Image    string
}

// Extractor fetches a page and extracts its readable text.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*Page, error)
}

// Readability extracts pages with go-readability.
type Readability struct {
	client    *http.Client
	userAgent string
	validator *validation.URLValidator
}

func NewReadability(timeout time.Duration, userAgent string) *Readability {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Readability{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		validator: validation.NewBaseURLValidator(),
	}
}

func (r *Readability) Extract(ctx context.Context, pageURL string) (*Page, error) {
	normalized, err := r.validator.Validate(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid article url: %w", err)
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("parsing article url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return nil, fmt.Errorf("readability extraction failed: %w", err)
	}

	text := markdown(article.Content)
	if text == "" {
		text = paragraphs(article.TextContent)
	}
	if text == "" {
		return nil, fmt.Errorf("no readable content at %s", normalized)
	}

	return &Page{
		Title:    article.Title,
		Byline:   article.Byline,
		SiteName: article.SiteName,
		Excerpt:  article.Excerpt,
		Text:     text,
		Image:    article.Image,
	}, nil
}

// markdown converts the extracted article HTML so headings, lists and
// emphasis survive into the reader.
func markdown(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		debuglog.Warnf("converting article html: %v", err)
		return ""
	}
	return strings.TrimSpace(md)
}

// paragraphs normalizes extracted text to markdown paragraphs.
func paragraphs(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n\n")
}

// Document builds the markdown shown in the reader view. Without a page the
// article description stands in for the body.
func Document(a news.Article, page *Page) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.Title)

	meta := []string{a.Source(), a.Published()}
	if page != nil && page.Byline != "" {
		meta = append(meta, page.Byline)
	}
	fmt.Fprintf(&b, "*%s*\n\n", strings.Join(meta, " · "))

	switch {
	case page != nil && page.Text != "":
		b.WriteString(page.Text)
	case a.Description != "":
		b.WriteString(a.Description)
	default:
		b.WriteString("_No preview available._")
	}

	fmt.Fprintf(&b, "\n\n---\n\n[Read the full article](%s)\n", a.URL)
	return b.String()
}
