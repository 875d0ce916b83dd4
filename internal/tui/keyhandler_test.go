package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/pulse/internal/config"
	"github.com/pders01/pulse/internal/feed"
)

func TestKeyHandler_ModifierKey(t *testing.T) {
	app := NewApp(config.TestConfig(), feed.NewController(&stubFetcher{}, ""), testCategories)

	assert.NotNil(t, app.keyHandler)
	assert.Equal(t, "ctrl+", app.keyHandler.modifierKey)
	assert.Equal(t, "ctrl+s", app.keyHandler.binding("s"))
}

func TestKeyHandler_CustomModifier(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	app := NewApp(cfg, feed.NewController(&stubFetcher{}, ""), testCategories)

	assert.Equal(t, "alt+s", app.keyHandler.binding("s"))

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s"), Alt: true})
	assert.Equal(t, ViewSearch, app.view, "alt+s should open search")
}

func TestKeyHandler_NoModifier(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = ""
	app := NewApp(cfg, feed.NewController(&stubFetcher{}, ""), testCategories)

	assert.Equal(t, "s", app.keyHandler.binding("s"))
}

func TestKeyHandler_HelpToggle(t *testing.T) {
	app, _ := loadedApp(t)

	short := app.keyHandler.GetHelpForCurrentView()
	assert.Contains(t, short, "?: more")

	press(app, runes("?"))
	assert.True(t, app.showFullHelp)

	full := app.keyHandler.GetHelpForCurrentView()
	assert.NotContains(t, full, "?: more")
	assert.Contains(t, full, "ctrl+r: reset")
	assert.Contains(t, full, "ctrl+f: find")
	assert.Contains(t, full, "q: quit")

	press(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, app.showFullHelp)
}

func TestKeyHandler_GetHelpForCurrentView(t *testing.T) {
	tests := []struct {
		view     View
		contains string
	}{
		{ViewFeed, "enter: read"},
		{ViewReader, "ctrl+t: full text"},
		{ViewReader, "ctrl+o: open"},
		{ViewSearch, "enter: search"},
		{ViewFind, "enter: jump"},
	}

	app := NewApp(config.TestConfig(), feed.NewController(&stubFetcher{}, ""), testCategories)
	for _, tt := range tests {
		t.Run(tt.view.String()+"/"+tt.contains, func(t *testing.T) {
			app.view = tt.view
			assert.Contains(t, app.keyHandler.GetHelpForCurrentView(), tt.contains)
		})
	}
}

func TestKeyHandler_QuitIsTextInSearch(t *testing.T) {
	app, _ := loadedApp(t)
	press(app, tea.KeyMsg{Type: tea.KeyCtrlS})

	cmd := press(app, runes("q"))

	if cmd != nil {
		_, isQuit := cmd().(tea.QuitMsg)
		assert.False(t, isQuit)
	}
	assert.Equal(t, "q", app.searchInput.Value())
	assert.Equal(t, ViewSearch, app.view)
}

func TestKeyHandler_CtrlCQuitsFromInput(t *testing.T) {
	app, _ := loadedApp(t)
	press(app, tea.KeyMsg{Type: tea.KeyCtrlS})

	cmd := press(app, tea.KeyMsg{Type: tea.KeyCtrlC})

	if assert.NotNil(t, cmd) {
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestKeyHandler_KeyClearsError(t *testing.T) {
	app, _ := loadedApp(t)
	app.Update(errorMsg{err: assert.AnError})
	assert.Contains(t, app.View(), assert.AnError.Error())

	press(app, tea.KeyMsg{Type: tea.KeyDown})

	assert.Nil(t, app.err)
}
