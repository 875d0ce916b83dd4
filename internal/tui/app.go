package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/pulse/internal/browser"
	"github.com/pders01/pulse/internal/config"
	"github.com/pders01/pulse/internal/debuglog"
	"github.com/pders01/pulse/internal/feed"
	"github.com/pders01/pulse/internal/news"
	"github.com/pders01/pulse/internal/reader"
	"github.com/pders01/pulse/internal/search"
)

// chrome is the number of lines taken by the separator and status bar.
const chrome = 3

type App struct {
	config     *config.Config
	ctx        context.Context
	controller *feed.Controller
	categories []string
	searcher   search.Searcher
	extractor  reader.Extractor
	renderer   *reader.Renderer
	launcher   *browser.Launcher
	keyHandler *KeyHandler

	articleList list.Model
	findList    list.Model
	searchInput textinput.Model
	findInput   textinput.Model
	viewport    viewport.Model
	spinner     spinner.Model

	view           View
	currentArticle *news.Article
	readerPage     *reader.Page
	loadingArticle bool
	showFullHelp   bool
	status         string
	statusKind     StatusKind
	width          int
	height         int
	err            error
}

// NewApp builds the TUI around ctrl. categories is the provider's category
// vocabulary shown in the category bar.
func NewApp(cfg *config.Config, ctrl *feed.Controller, categories []string) *App {
	ApplyTheme(cfg.UI.Colors)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(PrimaryColor).
		BorderForeground(PrimaryColor)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.BorderForeground(PrimaryColor)

	articleList := list.New([]list.Item{}, delegate, 0, 0)
	articleList.SetShowTitle(false)
	articleList.SetShowStatusBar(false)
	articleList.SetFilteringEnabled(false)
	articleList.SetShowHelp(false)

	findList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	findList.SetShowTitle(false)
	findList.SetShowStatusBar(false)
	findList.SetFilteringEnabled(false)
	findList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search global stories..."
	si.CharLimit = 256

	fi := textinput.New()
	fi.Placeholder = "Find on this page..."
	fi.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:      cfg,
		ctx:         context.Background(),
		controller:  ctrl,
		categories:  categories,
		searcher:    search.New(),
		extractor:   reader.NewReadability(cfg.UI.Article.FullTextTimeout, cfg.API.UserAgent),
		renderer:    reader.NewRenderer("", cfg.UI.Article.WordWrapMinWidth, cfg.UI.Article.WordWrapMaxWidth),
		launcher:    browser.NewLauncher(cfg.UI.Opener),
		articleList: articleList,
		findList:    findList,
		searchInput: si,
		findInput:   fi,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		view:        ViewFeed,
	}

	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

// WithContext sets the context requests are issued under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.fetch(a.controller.Begin()),
		tea.EnterAltScreen,
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case feedLoadedMsg:
		if a.controller.Apply(msg.result) {
			a.syncArticles()
		}
		return a, nil

	case articleExtractedMsg:
		if a.view != ViewReader || a.currentArticle == nil || a.currentArticle.URL != msg.url {
			return a, nil
		}
		a.loadingArticle = false
		if msg.err != nil {
			debuglog.WithFields(debuglog.Fields{"url": msg.url}).Warnf("full text: %v", msg.err)
			a.setStatus(MsgFullTextFailed, StatusWarn)
			return a, nil
		}
		a.readerPage = msg.page
		a.renderArticle()
		a.setStatus("", StatusInfo)
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.kind)
		return a, nil

	case errorMsg:
		a.err = msg.err
		return a, nil
	}

	return a, a.updateComponents(msg)
}

// updateComponents forwards messages the app does not handle itself (cursor
// blinks, mouse events) to the active view's component.
func (a *App) updateComponents(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.view {
	case ViewFeed:
		a.articleList, cmd = a.articleList.Update(msg)
	case ViewSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
	case ViewFind:
		a.findInput, cmd = a.findInput.Update(msg)
	case ViewReader:
		a.viewport, cmd = a.viewport.Update(msg)
	}
	return cmd
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	// category bar, blank line and pager sit around the list
	a.articleList.SetSize(width, max(height-chrome-3, 3))
	a.findList.SetSize(width, max(height-chrome-6, 3))
	a.viewport.Width = width
	a.viewport.Height = max(height-chrome, 1)

	inputWidth := width - 8
	if inputWidth < 10 {
		inputWidth = max(width-4, 1)
	}
	a.searchInput.Width = inputWidth
	a.findInput.Width = inputWidth

	if a.view == ViewReader && a.currentArticle != nil {
		a.renderArticle()
	}
}

// busy reports whether something the spinner should indicate is in flight.
func (a *App) busy() bool {
	return a.loadingArticle || a.controller.State().Loading
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = text
	a.statusKind = kind
}

// syncArticles copies the controller's article list into the card list,
// scrolls back to the first card and reindexes find-in-page.
func (a *App) syncArticles() {
	st := a.controller.State()
	items := make([]list.Item, len(st.Articles))
	for i, art := range st.Articles {
		items[i] = articleItem{article: art, maxDesc: a.config.UI.Article.MaxDescriptionLength}
	}
	a.articleList.SetItems(items)
	a.articleList.ResetSelected()

	if err := a.searcher.Index(st.Articles); err != nil {
		debuglog.Warnf("indexing %d articles: %v", len(st.Articles), err)
	}

	if len(st.Articles) == 0 {
		a.setStatus(MsgNoResults, StatusWarn)
		return
	}
	a.setStatus(MsgFeedSummary(a.controller.Filter(), len(st.Articles)), StatusInfo)
}

func (a *App) selectedArticle() (news.Article, bool) {
	if i, ok := a.articleList.SelectedItem().(articleItem); ok {
		return i.article, true
	}
	return news.Article{}, false
}

func (a *App) View() string {
	bodyHeight := max(a.height-chrome, 0)

	var content string
	switch a.view {
	case ViewFeed:
		content = a.feedView(bodyHeight)
	case ViewSearch:
		content = renderCentered(a.width, bodyHeight, lipgloss.JoinVertical(
			lipgloss.Center,
			TitleStyle.Render("› search"),
			"",
			renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), a.searchInput.Width),
			"",
			renderHelp("Enter: search • Esc: cancel"),
		))
	case ViewReader:
		content = a.viewport.View()
	case ViewFind:
		content = a.findView(bodyHeight)
	}

	separator := SeparatorStyle.Render(strings.Repeat("─", max(a.width-1, 0)))
	return lipgloss.JoinVertical(lipgloss.Top, content, separator, a.getCustomStatusBar())
}

func (a *App) feedView(height int) string {
	f := a.controller.Filter()
	header := renderCategoryBar(a.categories, f, a.width)
	st := a.controller.State()

	var body string
	switch {
	case st.Loading:
		body = renderCentered(a.width, max(height-2, 1), a.spinner.View()+" "+renderMuted(MsgLoading))
	case len(st.Articles) == 0:
		hint := MsgNoResults + " • " + a.keyHandler.binding(a.config.Keys.Bindings.Reset) + ": reset filters"
		body = renderCentered(a.width, max(height-2, 1), GetCompactBanner(hint))
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, a.articleList.View(), renderPager(f.Page))
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

func (a *App) findView(height int) string {
	helpText := "Type to find • Tab/↓: results • Esc: back"
	if !a.findInput.Focused() {
		if len(a.findList.Items()) > 0 {
			helpText = "↑↓: navigate • Enter: jump • Tab: find box • Esc: back"
		} else {
			helpText = MsgNoMatches + " • Tab: find box • Esc: back"
		}
	}

	findContent := lipgloss.JoinVertical(
		lipgloss.Top,
		renderHeader("› find on this page", "", a.width),
		"",
		renderInputFrame(a.findInput.View(), a.findInput.Focused(), a.findInput.Width),
		renderMuted(helpText),
		"",
		a.findList.View(),
	)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		MaxHeight(height).
		Render(findContent)
}

func (a *App) getCustomStatusBar() string {
	bar := lipgloss.NewStyle().Width(a.width).Padding(0, 1)

	if a.err != nil {
		return bar.Render(ErrorMessageStyle.Render("✗ " + a.err.Error()))
	}

	var parts []string
	if a.busy() {
		parts = append(parts, a.spinner.View())
	}
	if a.status != "" {
		parts = append(parts, a.statusKind.style()(a.status))
	}
	if commands := a.keyHandler.GetHelpForCurrentView(); len(commands) > 0 {
		parts = append(parts, renderMuted(strings.Join(commands, " • ")))
	}
	return bar.Render(strings.Join(parts, "  "))
}
