package search

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/pulse/internal/news"
)

type bleveEngine struct {
	mu       sync.RWMutex
	idx      bleve.Index
	articles []news.Article
}

// NewBleveEngine creates an empty in-memory index.
func NewBleveEngine() (Searcher, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	return &bleveEngine{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.IncludeTermVectors = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name

	source := bleve.NewTextFieldMapping()
	source.Analyzer = standard.Name

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("source", source)

	im.DefaultMapping = dm
	return im
}

// Index swaps in a fresh index holding articles.
func (b *bleveEngine) Index(articles []news.Article) error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	batch := idx.NewBatch()
	for i, a := range articles {
		if err := batch.Index(strconv.Itoa(i), map[string]any{
			"title":       a.Title,
			"description": a.Description,
			"source":      a.SourceName,
		}); err != nil {
			_ = idx.Close()
			return fmt.Errorf("indexing article %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("indexing articles: %w", err)
	}

	b.mu.Lock()
	old := b.idx
	b.idx = idx
	b.articles = append([]news.Article(nil), articles...)
	b.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qs = append(qs,
			fieldMatch(tok, "title", 4.0),
			fieldPrefix(tok, "title", 3.5),
			fieldMatch(tok, "description", 2.0),
			fieldPrefix(tok, "description", 1.8),
			fieldMatch(tok, "source", 1.0),
			fieldPrefix(tok, "source", 0.8),
		)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	size := limit
	if size <= 0 {
		size = len(b.articles)
	}
	if size == 0 {
		return []*Result{}, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), size, 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		pos, err := strconv.Atoi(h.ID)
		if err != nil || pos < 0 || pos >= len(b.articles) {
			continue
		}
		out = append(out, &Result{
			Position: pos,
			Article:  b.articles[pos],
			Score:    h.Score,
		})
	}
	return out, nil
}

func fieldMatch(tok, field string, boost float64) bleveQuery.Query {
	q := bleve.NewMatchQuery(tok)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

func fieldPrefix(tok, field string, boost float64) bleveQuery.Query {
	q := bleve.NewPrefixQuery(tok)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n, err := b.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
