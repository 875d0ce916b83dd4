package reader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/pulse/internal/news"
)

func articleHTML() string {
	var body strings.Builder
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&body, "<p>Paragraph %d of the story. %s</p>\n", i,
			strings.Repeat("Officials confirmed the results after a long night of counting ballots across the region. ", 4))
	}
	return `<!DOCTYPE html><html><head><title>Counting ends</title>
<meta property="og:site_name" content="The Wire"></head>
<body><nav><a href="/">Home</a><a href="/world">World</a></nav>
<article><h1>Counting ends</h1><p class="byline">By Jane Reporter</p>` + body.String() + `</article>
<footer>Copyright</footer></body></html>`
}

func TestReadabilityExtract(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML()))
	}))
	defer srv.Close()

	ex := NewReadability(5*time.Second, "pulse-test/1.0")
	page, err := ex.Extract(context.Background(), srv.URL+"/story")
	require.NoError(t, err)

	assert.Contains(t, page.Text, "Paragraph 1 of the story.")
	assert.Contains(t, page.Text, "Paragraph 6 of the story.")
	assert.NotContains(t, page.Text, "Copyright")
	assert.Equal(t, "pulse-test/1.0", ua)
}

func TestReadabilityExtractErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ex := NewReadability(0, "")

	_, err := ex.Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = ex.Extract(context.Background(), "mailto:someone@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid article url")

	_, err = ex.Extract(context.Background(), "")
	require.Error(t, err)
}

func TestMarkdown(t *testing.T) {
	md := markdown("<h2>Results</h2><p>Turnout was <strong>high</strong>.</p>")
	assert.Contains(t, md, "## Results")
	assert.Contains(t, md, "**high**")
	assert.Equal(t, "", markdown("  "))
}

func TestParagraphs(t *testing.T) {
	in := "  First   line \n\n\n second\tline\n   \nthird"
	assert.Equal(t, "First line\n\nsecond line\n\nthird", paragraphs(in))
	assert.Equal(t, "", paragraphs(" \n \n"))
}

func TestDocument(t *testing.T) {
	a := news.Article{
		Title:       "Counting ends",
		Description: "Short summary.",
		URL:         "https://wire.test/story",
		SourceName:  "The Wire",
	}

	doc := Document(a, nil)
	assert.True(t, strings.HasPrefix(doc, "# Counting ends\n"))
	assert.Contains(t, doc, "*The Wire · Recent*")
	assert.Contains(t, doc, "Short summary.")
	assert.Contains(t, doc, "(https://wire.test/story)")

	doc = Document(a, &Page{Text: "Full body.", Byline: "Jane Reporter"})
	assert.Contains(t, doc, "Full body.")
	assert.NotContains(t, doc, "Short summary.")
	assert.Contains(t, doc, "Jane Reporter")

	doc = Document(news.Article{Title: "Bare", URL: "https://x.test"}, nil)
	assert.Contains(t, doc, "Unknown source")
	assert.Contains(t, doc, "No preview available")
}

func TestRendererWrapWidth(t *testing.T) {
	r := NewRenderer("notty", 40, 120)

	tests := []struct {
		term int
		want int
	}{
		{term: 200, want: 120},
		{term: 100, want: 90},
		{term: 60, want: 54},
		{term: 45, want: 41},
		{term: 10, want: 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.WrapWidth(tt.term), "term width %d", tt.term)
	}
}

func TestRendererRender(t *testing.T) {
	r := NewRenderer("notty", 40, 120)

	out, err := r.Render("# Heading\n\nSome body text.", 100)
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "Some body text.")

	first := r.r
	_, err = r.Render("again", 105)
	require.NoError(t, err)
	assert.Same(t, first, r.r, "small width changes reuse the renderer")

	_, err = r.Render("again", 200)
	require.NoError(t, err)
	assert.NotSame(t, first, r.r)
}
