package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/pulse/internal/config"
	"github.com/pders01/pulse/internal/search"
)

type KeyHandler struct {
	app         *App
	keys        config.KeyBindings
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := ""
	if cfg.Keys.Modifier != "" {
		modifierKey = cfg.Keys.Modifier + "+"
	}
	return &KeyHandler{app: app, keys: cfg.Keys.Bindings, modifierKey: modifierKey}
}

// binding returns the full key string for a modifier based action.
func (kh *KeyHandler) binding(key string) string {
	return kh.modifierKey + key
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	kh.app.err = nil

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(key); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.searchInput.Focused()
	case ViewFind:
		return kh.app.findInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewFind {
			if len(kh.app.findList.Items()) > 0 {
				kh.app.findInput.Blur()
				kh.app.findList.Select(0)
			}
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		t, ok := kh.app.controller.SubmitSearch(kh.app.searchInput.Value())
		if !ok {
			kh.app.setStatus(MsgEmptySearch, StatusWarn)
			return kh.app, nil
		}
		kh.app.searchInput.Blur()
		kh.app.view = ViewFeed
		return kh.app, kh.app.startFetch(t, ok)

	case ViewFind:
		if items := kh.app.findList.Items(); len(items) > 0 {
			if i, ok := items[0].(findItem); ok {
				return kh.jumpTo(i.result)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

// delegateToTextInput passes the key to the focused input. Search text is
// mirrored into the filter state as it is typed, without fetching.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewSearch:
		prev := kh.app.searchInput.Value()
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
		if v := kh.app.searchInput.Value(); v != prev {
			kh.app.controller.SetQuery(v)
		}
		return kh.app, cmd

	case ViewFind:
		prev := kh.app.findInput.Value()
		kh.app.findInput, cmd = kh.app.findInput.Update(msg)
		if v := kh.app.findInput.Value(); v != prev {
			kh.app.runFind(v)
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles only our custom action keys
func (kh *KeyHandler) handleCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "ctrl+c", kh.keys.Quit:
		return kh.app, tea.Quit, true
	case kh.keys.Back:
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case kh.keys.Help:
		kh.app.showFullHelp = !kh.app.showFullHelp
		return kh.app, nil, true
	case kh.binding(kh.keys.Search):
		model, cmd := kh.enterSearchMode()
		return model, cmd, true
	case kh.binding(kh.keys.Reset):
		kh.app.view = ViewFeed
		kh.app.searchInput.Reset()
		return kh.app, kh.app.startFetch(kh.app.controller.Reset(), true), true
	}

	switch kh.app.view {
	case ViewFeed:
		return kh.handleFeedCustomKeys(key)
	case ViewReader:
		return kh.handleReaderCustomKeys(key)
	case ViewFind:
		return kh.handleFindCustomKeys(key)
	default:
		return kh.app, nil, false
	}
}

func (kh *KeyHandler) handleFeedCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "right", "tab":
		return kh.app, kh.cycleCategory(1), true
	case "left", "shift+tab":
		return kh.app, kh.cycleCategory(-1), true
	case "]", kh.binding(kh.keys.NextPage):
		if len(kh.app.controller.State().Articles) == 0 {
			kh.app.setStatus(MsgNoResults, StatusWarn)
			return kh.app, nil, true
		}
		return kh.app, kh.app.startFetch(kh.app.controller.NextPage()), true
	case "[", kh.binding(kh.keys.PrevPage):
		if kh.app.controller.Filter().Page <= 1 {
			kh.app.setStatus(MsgAlreadyOnFirstPage, StatusInfo)
			return kh.app, nil, true
		}
		return kh.app, kh.app.startFetch(kh.app.controller.PrevPage()), true
	case kh.binding(kh.keys.Find):
		model, cmd := kh.enterFindMode()
		return model, cmd, true
	case kh.binding(kh.keys.Open):
		if article, ok := kh.app.selectedArticle(); ok {
			return kh.app, kh.app.openURL(article.URL), true
		}
		return kh.app, nil, true
	case "enter":
		if article, ok := kh.app.selectedArticle(); ok {
			kh.app.openReader(article)
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleReaderCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	article := kh.app.currentArticle
	if article == nil {
		return kh.app, nil, false
	}

	switch key {
	case kh.binding(kh.keys.Open):
		return kh.app, kh.app.openURL(article.URL), true
	case kh.binding(kh.keys.FullText):
		if kh.app.loadingArticle || kh.app.readerPage != nil {
			return kh.app, nil, true
		}
		kh.app.loadingArticle = true
		kh.app.setStatus(MsgLoadingArticle, StatusInfo)
		return kh.app, tea.Batch(kh.app.spinner.Tick, kh.app.extractArticle(*article)), true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleFindCustomKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "tab", "shift+tab", "/":
		kh.app.findInput.Focus()
		return kh.app, nil, true
	case "up":
		if kh.app.findList.Index() == 0 {
			kh.app.findInput.Focus()
			return kh.app, nil, true
		}
	case "enter":
		if i, ok := kh.app.findList.SelectedItem().(findItem); ok {
			model, cmd := kh.jumpTo(i.result)
			return model, cmd, true
		}
		return kh.app, nil, true
	}
	return kh.app, nil, false
}

// delegateToCharm lets Charm handle all keys we don't intercept
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch kh.app.view {
	case ViewFeed:
		kh.app.articleList, cmd = kh.app.articleList.Update(msg)
	case ViewFind:
		kh.app.findList, cmd = kh.app.findList.Update(msg)
	case ViewReader:
		kh.app.viewport, cmd = kh.app.viewport.Update(msg)
	case ViewSearch:
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)
	}
	return kh.app, cmd
}

// cycleCategory moves through the provider's categories. While a search is
// active the first press returns to the current category's headlines.
func (kh *KeyHandler) cycleCategory(delta int) tea.Cmd {
	cats := kh.app.categories
	if len(cats) == 0 {
		return nil
	}

	f := kh.app.controller.Filter()
	idx := slices.Index(cats, f.Category)
	switch {
	case idx < 0:
		idx = 0
	case !f.Searching():
		idx = (idx + delta + len(cats)) % len(cats)
	}

	kh.app.searchInput.Reset()
	return kh.app.startFetch(kh.app.controller.SelectCategory(cats[idx]))
}

// jumpTo leaves find mode with the matching card selected.
func (kh *KeyHandler) jumpTo(r *search.Result) (tea.Model, tea.Cmd) {
	kh.app.view = ViewFeed
	kh.app.findInput.Blur()
	kh.app.findInput.Reset()
	kh.app.findList.SetItems([]list.Item{})
	kh.app.articleList.Select(r.Position)
	kh.app.setStatus("", StatusInfo)
	return kh.app, nil
}

// navigateBack returns to the feed from every other view.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewSearch:
		kh.app.searchInput.Blur()
	case ViewFind:
		kh.app.findInput.Blur()
		kh.app.findInput.Reset()
		kh.app.findList.SetItems([]list.Item{})
	case ViewReader:
		kh.app.currentArticle = nil
		kh.app.readerPage = nil
		kh.app.loadingArticle = false
	case ViewFeed:
		kh.app.showFullHelp = false
		return kh.app, nil
	}
	kh.app.view = ViewFeed
	kh.app.setStatus("", StatusInfo)
	return kh.app, nil
}

// enterSearchMode opens the search box prefilled with the current query.
func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	kh.app.view = ViewSearch
	kh.app.searchInput.SetValue(strings.TrimSpace(kh.app.controller.Filter().SearchQuery))
	kh.app.searchInput.CursorEnd()
	return kh.app, kh.app.searchInput.Focus()
}

func (kh *KeyHandler) enterFindMode() (tea.Model, tea.Cmd) {
	kh.app.view = ViewFind
	kh.app.findInput.Reset()
	kh.app.findList.SetItems([]list.Item{})
	if ds, ok := kh.app.searcher.(search.DebugStatser); ok {
		if n, err := ds.DocCount(); err == nil {
			kh.app.setStatus("Find: "+MsgResultsCount(n)+" indexed", StatusInfo)
		}
	}
	return kh.app, kh.app.findInput.Focus()
}

// GetHelpForCurrentView returns the key hints shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	switch kh.app.view {
	case ViewFeed:
		help := []string{
			"enter: read",
			"←/→: category",
			"[/]: page",
			kh.binding(kh.keys.Search) + ": search",
			kh.keys.Help + ": more",
		}
		if kh.app.showFullHelp {
			help = append(help[:len(help)-1],
				kh.binding(kh.keys.PrevPage)+"/"+kh.binding(kh.keys.NextPage)+": page",
				kh.binding(kh.keys.Find)+": find",
				kh.binding(kh.keys.Open)+": open",
				kh.binding(kh.keys.Reset)+": reset",
				kh.keys.Quit+": quit",
			)
		}
		return help

	case ViewReader:
		return []string{
			kh.binding(kh.keys.FullText) + ": full text",
			kh.binding(kh.keys.Open) + ": open",
			kh.keys.Back + ": back",
		}

	case ViewSearch:
		return []string{"enter: search", "esc: cancel"}

	case ViewFind:
		return []string{"enter: jump", "tab: results", "esc: back"}

	default:
		return []string{}
	}
}
