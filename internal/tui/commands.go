package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/feed"
	"github.com/pders01/pulse/internal/news"
	"github.com/pders01/pulse/internal/reader"
)

// fetch executes t off the update loop. The result comes back as a
// feedLoadedMsg and is applied only if t is still the latest ticket.
func (a *App) fetch(t feed.Ticket) tea.Cmd {
	ctx := a.ctx
	ctrl := a.controller
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return feedLoadedMsg{result: ctrl.Execute(ctx, t)}
	})
}

// startFetch clears any stale error and fetches when the action asked for it.
func (a *App) startFetch(t feed.Ticket, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	a.err = nil
	a.setStatus(MsgLoading, StatusInfo)
	return a.fetch(t)
}

func (a *App) extractArticle(article news.Article) tea.Cmd {
	ctx := a.ctx
	extractor := a.extractor
	return func() tea.Msg {
		page, err := extractor.Extract(ctx, article.URL)
		return articleExtractedMsg{url: article.URL, page: page, err: err}
	}
}

func (a *App) openURL(url string) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		if err := launcher.Open(url); err != nil {
			return errorMsg{err: wrapErr("opening "+url, err)}
		}
		return statusMsg{text: "Opened in browser", kind: StatusSuccess}
	}
}

// openReader shows article in the reader using its summary. Full text is
// fetched on request.
func (a *App) openReader(article news.Article) {
	a.currentArticle = &article
	a.readerPage = nil
	a.loadingArticle = false
	a.view = ViewReader
	a.renderArticle()
	a.viewport.GotoTop()
}

// renderArticle renders the current article into the viewport. Rendering
// errors fall back to the raw markdown.
func (a *App) renderArticle() {
	if a.currentArticle == nil {
		return
	}
	doc := reader.Document(*a.currentArticle, a.readerPage)
	out, err := a.renderer.Render(doc, a.width)
	if err != nil {
		debuglog.Warnf("rendering article: %v", err)
		out = doc
	}
	a.viewport.SetContent(out)
}

// runFind queries the page index and fills the find results.
func (a *App) runFind(query string) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		a.findList.SetItems([]list.Item{})
		a.setStatus("", StatusInfo)
		return
	}

	results, err := a.searcher.Search(query, news.PageSize)
	if err != nil {
		a.err = wrapErr("find", err)
		return
	}

	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = findItem{result: r}
	}
	a.findList.SetItems(items)
	a.findList.ResetSelected()

	if len(results) == 0 {
		a.setStatus(MsgNoMatches, StatusWarn)
		return
	}
	a.setStatus(MsgResultsCount(len(results)), StatusInfo)
}

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
