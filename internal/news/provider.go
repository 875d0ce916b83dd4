package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Provider adapts one upstream API to Query and Article.
type Provider interface {
	Name() string
	Definition() Definition
	Categories() []string
	// NewRequest builds the GET request for q against base. An empty
	// p.Key omits the credential parameter.
	NewRequest(ctx context.Context, base string, q Query, p Params) (*http.Request, error)
	// Decode parses a 2xx response body. q is passed so providers without
	// server-side paging can window the result.
	Decode(r io.Reader, q Query) ([]Article, error)
}

func newGetRequest(ctx context.Context, base, path string, values url.Values) (*http.Request, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + path)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return req, nil
}

func setIfNotEmpty(v url.Values, key, value string) {
	if key != "" && value != "" {
		v.Set(key, value)
	}
}
