package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/pulse/internal/feed"
	"github.com/pders01/pulse/internal/news"
	"github.com/pders01/pulse/internal/search"
)

// articleItem is one card in the feed list.
type articleItem struct {
	article news.Article
	maxDesc int
}

func (i articleItem) Title() string { return i.article.Title }

func (i articleItem) Description() string {
	meta := SourceStyle.Render(i.article.Source()) + TimeStyle.Render(" • "+i.article.Published())
	desc := strings.Join(strings.Fields(i.article.Description), " ")
	if desc == "" {
		return meta
	}
	return meta + renderMuted(" • "+truncateEnd(desc, i.maxDesc))
}

func (i articleItem) FilterValue() string { return i.article.Title }

// findItem is a find-in-page hit pointing back at a card.
type findItem struct {
	result *search.Result
}

func (i findItem) Title() string { return i.result.Article.Title }

func (i findItem) Description() string {
	if len(i.result.Matches) == 0 {
		return renderMuted(i.result.Article.Source())
	}
	m := i.result.Matches[0]
	return renderMuted(m.Field + ": " + m.Text)
}

func (i findItem) FilterValue() string { return i.result.Article.Title }

// renderCategoryBar lists the categories with the active one highlighted.
// No category is highlighted while a search drives the feed.
func renderCategoryBar(categories []string, f feed.FilterState, width int) string {
	if f.Searching() {
		return renderHeader("› search: "+strings.TrimSpace(f.SearchQuery), "", width)
	}
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == f.Category {
			parts = append(parts, ActiveCategoryStyle.Render(c))
			continue
		}
		parts = append(parts, CategoryStyle.Render(c))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(bar) > width && width > 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(bar)
	}
	return bar
}

// renderPager shows the page indicator. The previous marker is dimmed on
// page one.
func renderPager(page int) string {
	prev := HeaderStyle.Render("‹")
	if page <= 1 {
		prev = renderMuted("‹")
	}
	return prev + " " + TitleStyle.Render("Page "+strconv.Itoa(page)) + " " + HeaderStyle.Render("›")
}

// renderHeader returns a consistently styled header with an optional muted subtitle.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

func renderInputFrame(inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 4).
		Render(inputView)
}

func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

// truncateEnd shortens s to at most limit runes, ending in an ellipsis when
// anything was cut.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:limit-1]), " ") + "…"
}
