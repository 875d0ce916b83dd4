package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gnewsBody = `{
  "totalArticles": 2,
  "articles": [
    {"title": "Chip makers rally", "description": "Semiconductor stocks rose.", "url": "https://example.com/chips",
     "image": "https://example.com/chips.jpg", "publishedAt": "2025-03-14T09:00:00Z", "source": {"name": "Wire"}},
    {"title": "New battery chemistry", "description": "", "url": "https://example.com/battery",
     "image": null, "publishedAt": "", "source": {"name": ""}}
  ]
}`

type upstream struct {
	*httptest.Server
	mu       sync.Mutex
	requests []*url.URL
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.requests = append(u.requests, r.URL)
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) last(t *testing.T) *url.URL {
	t.Helper()
	u.mu.Lock()
	defer u.mu.Unlock()
	require.NotEmpty(t, u.requests)
	return u.requests[len(u.requests)-1]
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	for _, env := range []string{"PULSE_API_KEY", "GNEWS_API_KEY", "NEWS_API_KEY", "VITE_NEWS_API_KEY", "PULSE_API_BASE_URL", "PULSE_API_PROVIDER"} {
		t.Setenv(env, "")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[api]\nprovider = \"gnews\"\nbase_url = \"" + baseURL + "\"\nkey = \"secret\"\nlanguage = \"en\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "pulse dev")
	assert.Contains(t, out, "Daily headlines in your terminal")
	assert.Contains(t, out, "github.com/pders01/pulse")
}

func TestGenerateConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse", "config.toml")

	out, _, err := execute(t, "config", "generate", path)

	require.NoError(t, err)
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[api]")
	assert.Contains(t, string(data), "gnews")
}

func TestProvidersCommand(t *testing.T) {
	out, _, err := execute(t, "providers")

	require.NoError(t, err)
	assert.Contains(t, out, "* gnews")
	assert.Contains(t, out, "newsapi")
	assert.Contains(t, out, "googlenews")
	assert.Contains(t, out, "technology")
}

func TestHeadlinesCommand(t *testing.T) {
	up := newUpstream(t, http.StatusOK, gnewsBody)
	cfgPath := writeConfig(t, up.URL)

	out, _, err := execute(t, "--config", cfgPath, "headlines", "--category", "technology", "--page", "2")
	require.NoError(t, err)

	req := up.last(t)
	assert.Equal(t, "/top-headlines", req.Path)
	assert.Equal(t, "technology", req.Query().Get("category"))
	assert.Equal(t, "2", req.Query().Get("page"))
	assert.Equal(t, "12", req.Query().Get("max"))
	assert.Equal(t, "secret", req.Query().Get("apikey"))

	assert.Contains(t, out, "technology • page 2")
	assert.Contains(t, out, "Chip makers rally")
	assert.Contains(t, out, "Wire")
	assert.Contains(t, out, "https://example.com/chips")
	assert.Contains(t, out, "Unknown source")
	assert.Contains(t, out, "Recent")
}

func TestHeadlinesCommand_DefaultsToGeneral(t *testing.T) {
	up := newUpstream(t, http.StatusOK, gnewsBody)
	cfgPath := writeConfig(t, up.URL)

	_, _, err := execute(t, "--config", cfgPath, "headlines")
	require.NoError(t, err)

	req := up.last(t)
	assert.Equal(t, "general", req.Query().Get("category"))
	assert.Equal(t, "1", req.Query().Get("page"))
}

func TestHeadlinesCommand_JSON(t *testing.T) {
	up := newUpstream(t, http.StatusOK, gnewsBody)
	cfgPath := writeConfig(t, up.URL)

	out, _, err := execute(t, "--config", cfgPath, "headlines", "--json")
	require.NoError(t, err)

	var got feedOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "general", got.Filter.Category)
	assert.Equal(t, 1, got.Filter.Page)
	require.Len(t, got.Articles, 2)
	assert.Equal(t, "Chip makers rally", got.Articles[0].Title)
}

func TestHeadlinesCommand_UpstreamFailureIsEmptyFeed(t *testing.T) {
	up := newUpstream(t, http.StatusUnauthorized, `{"errors":["invalid api key"]}`)
	cfgPath := writeConfig(t, up.URL)

	out, _, err := execute(t, "--config", cfgPath, "headlines")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found")
}

func TestSearchCommand(t *testing.T) {
	up := newUpstream(t, http.StatusOK, gnewsBody)
	cfgPath := writeConfig(t, up.URL)

	out, _, err := execute(t, "--config", cfgPath, "search", "climate", "change", "--page", "3")
	require.NoError(t, err)

	req := up.last(t)
	assert.Equal(t, "/search", req.Path)
	assert.Equal(t, "climate change", req.Query().Get("q"))
	assert.Equal(t, "3", req.Query().Get("page"))
	assert.Empty(t, req.Query().Get("category"))
	assert.Contains(t, out, "search: climate change • page 3")

	up.mu.Lock()
	defer up.mu.Unlock()
	assert.Len(t, up.requests, 1, "only the last issued request is executed")
}

func TestSearchCommand_BlankQuery(t *testing.T) {
	_, _, err := execute(t, "search", "   ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be blank")
}

func TestSearchCommand_RequiresArgs(t *testing.T) {
	_, _, err := execute(t, "search")

	require.Error(t, err)
}

func TestMissingKeyWarning(t *testing.T) {
	up := newUpstream(t, http.StatusOK, gnewsBody)
	cfgPath := writeConfig(t, up.URL)

	_, errOut, err := execute(t, "--config", cfgPath, "headlines")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "warning", "a configured key needs no warning")
}

func TestProxyCommand_RequiresKey(t *testing.T) {
	for _, env := range []string{"PULSE_API_KEY", "GNEWS_API_KEY", "NEWS_API_KEY", "VITE_NEWS_API_KEY"} {
		t.Setenv(env, "")
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nprovider = \"gnews\"\n"), 0o600))

	_, _, err := execute(t, "--config", path, "proxy")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs an API key")
}

func TestInvalidProvider(t *testing.T) {
	up := newUpstream(t, http.StatusOK, gnewsBody)
	cfgPath := writeConfig(t, up.URL)

	_, _, err := execute(t, "--config", cfgPath, "--provider", "nope", "headlines")

	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "abcdefgh", truncate("abcdefgh", 0))
}
