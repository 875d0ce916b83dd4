package news

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pders01/pulse/internal/validation"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pulse/1.0 (https://github.com/pders01/pulse)"
	maxErrorBody     = 4 << 10
)

type Options struct {
	// BaseURL overrides the provider's catalog base URL, e.g. with the
	// address of `pulse proxy`.
	BaseURL   string
	Params    Params
	Timeout   time.Duration
	UserAgent string
	// HTTPClient replaces the default client; Timeout is ignored then.
	HTTPClient *http.Client
}

// Client executes queries against one provider. The credential is fixed at
// construction and never read from the environment.
type Client struct {
	provider  Provider
	http      *http.Client
	baseURL   string
	params    Params
	userAgent string
	validator *validation.URLValidator
}

func NewClient(p Provider, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	base := opts.BaseURL
	if base == "" {
		base = p.Definition().BaseURL
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		provider:  p,
		http:      httpClient,
		baseURL:   base,
		params:    opts.Params,
		userAgent: ua,
		validator: validation.NewArticleURLValidator(),
	}
}

func (c *Client) Provider() Provider {
	return c.provider
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch runs q and returns the validated article list. Every failure is a
// *FetchError.
func (c *Client) Fetch(ctx context.Context, q Query) ([]Article, error) {
	req, err := c.provider.NewRequest(ctx, c.baseURL, q, c.params)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Endpoint: q.Endpoint, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Endpoint: q.Endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{
			Kind:       KindStatus,
			Endpoint:   q.Endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	articles, err := c.provider.Decode(resp.Body, q)
	if err != nil {
		return nil, &FetchError{Kind: KindDecode, Endpoint: q.Endpoint, StatusCode: resp.StatusCode, Err: err}
	}

	return c.sanitize(articles), nil
}

// sanitize drops articles without a title or a usable link and clears image
// links that would not load.
func (c *Client) sanitize(articles []Article) []Article {
	valid := make([]Article, 0, len(articles))
	for _, a := range articles {
		a.Title = strings.TrimSpace(a.Title)
		if a.Title == "" {
			continue
		}
		link, err := c.validator.Validate(a.URL)
		if err != nil {
			continue
		}
		a.URL = link
		if a.ImageURL != "" && !c.validator.IsValid(a.ImageURL) {
			a.ImageURL = ""
		}
		a.Description = strings.TrimSpace(a.Description)
		valid = append(valid, a)
	}
	return valid
}

// errorMessage pulls a human readable message out of an upstream error body.
// gnews answers {"errors": [...]}, newsapi {"message": "..."}.
func errorMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		var list []string
		if err := json.Unmarshal(payload.Errors, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
