package search

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/pders01/pulse/internal/news"
)

// Engine scores articles in memory without an index.
type Engine struct {
	mu       sync.RWMutex
	articles []news.Article
	now      func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

func (e *Engine) Index(articles []news.Article) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.articles = append([]news.Article(nil), articles...)
	return nil
}

func (e *Engine) DocCount() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.articles), nil
}

// Search returns matching articles ordered by relevance, best first.
func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	results := []*Result{}
	for i, article := range e.articles {
		if result := e.searchArticle(i, article, terms); result != nil {
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (e *Engine) searchArticle(pos int, article news.Article, terms []string) *Result {
	var matches []Match
	var totalScore float64

	if titleScore := scoreField(article.Title, terms, 4.0); titleScore > 0 {
		matches = append(matches, Match{
			Field:  "title",
			Text:   article.Title,
			Weight: titleScore,
		})
		totalScore += titleScore
	}

	if descScore := scoreField(article.Description, terms, 2.0); descScore > 0 {
		matches = append(matches, Match{
			Field:  "description",
			Text:   findBestSnippet(article.Description, terms, 150),
			Weight: descScore,
		})
		totalScore += descScore
	}

	if sourceScore := scoreField(article.SourceName, terms, 1.0); sourceScore > 0 {
		matches = append(matches, Match{
			Field:  "source",
			Text:   article.SourceName,
			Weight: sourceScore,
		})
		totalScore += sourceScore
	}

	if totalScore == 0 {
		return nil
	}

	totalScore *= 1.0 + recencyBoost(article.PublishedAt, e.now())
	return &Result{
		Position: pos,
		Article:  article,
		Score:    totalScore,
		Matches:  matches,
	}
}

// scoreField calculates relevance score for a field
func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matchedTerms := 0

	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matchedTerms++
		}

		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matchedTerms++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matchedTerms++
			case strings.Contains(word, term):
				score += 0.5
				matchedTerms++
			}
		}
	}

	if len(terms) > 1 && matchedTerms > 1 {
		score *= 1.0 + float64(matchedTerms)/float64(len(terms))
	}

	tf := float64(matchedTerms) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// findBestSnippet returns the window of text with the most term hits.
func findBestSnippet(text string, terms []string, maxLength int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	windowSize := maxLength / 8
	if windowSize >= len(words) {
		return truncate(text, maxLength)
	}

	bestScore := 0
	bestStart := 0
	for i := 0; i <= len(words)-windowSize; i++ {
		window := strings.ToLower(strings.Join(words[i:i+windowSize], " "))
		score := 0
		for _, term := range terms {
			if strings.Contains(window, term) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}

	return truncate(strings.Join(words[bestStart:bestStart+windowSize], " "), maxLength)
}

// tokenize breaks text into lowercase searchable terms, skipping single
// characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	flush := func() {
		if current.Len() > 1 {
			terms = append(terms, current.String())
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
	}
	flush()

	return terms
}

func truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}

// recencyBoost favors stories from the last day by up to 10%.
func recencyBoost(published, now time.Time) float64 {
	if published.IsZero() {
		return 0
	}
	age := now.Sub(published)
	switch {
	case age < 0:
		return 0.1
	case age < 24*time.Hour:
		return 0.1 * (1 - age.Hours()/24)
	default:
		return 0
	}
}
