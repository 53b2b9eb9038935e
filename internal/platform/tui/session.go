package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/busjam/internal/core"
)

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenResults
)

// SessionModel runs the full flow: level menu, game, results, back to menu.
// It is the top-level model for local play and for SSH sessions.
type SessionModel struct {
	catalog  Catalog
	config   core.RuntimeConfig
	username string

	active  sessionScreen
	menu    LevelMenuModel
	game    Model
	results ResultsModel
	games   int // game models started, used as the tick generation

	quitting bool
}

// NewSessionModel creates a session that opens on the level menu.
func NewSessionModel(cat Catalog, cfg core.RuntimeConfig, username string) SessionModel {
	return SessionModel{
		catalog:  cat,
		config:   cfg,
		username: username,
		menu:     NewLevelMenuModel(cat, cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active screen.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.active {
	case screenGame:
		return m.updateGame(msg)
	case screenResults:
		return m.updateResults(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(LevelMenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting(), m.menu.WantsBack():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsResults():
		m.results = NewResultsModel(m.catalog, m.config.ScreenW, m.config.ScreenH)
		m.active = screenResults
		return m, m.results.Init()

	case m.menu.Selected() != nil:
		start := m.menu.Selected().StartIndex()
		m.catalog.logger().Info("level started", "user", m.username, "level", start+1)

		m.games++
		m.game = NewModel(m.catalog.NewGame(start), m.config)
		m.game.gen = m.games
		m.active = screenGame
		return m, m.game.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = game
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		return m.showMenu()
	}
	return m, cmd
}

func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.results.Update(msg)
	if results, ok := next.(ResultsModel); ok {
		m.results = results
	}

	switch {
	case m.results.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.results.IsGoingBack():
		return m.showMenu()
	}
	return m, cmd
}

// showMenu returns to a fresh level menu so stored records are reloaded.
func (m SessionModel) showMenu() (tea.Model, tea.Cmd) {
	m.menu = NewLevelMenuModel(m.catalog, m.config.ScreenW, m.config.ScreenH)
	m.active = screenMenu
	return m, m.menu.Init()
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.active {
	case screenGame:
		return m.game.View()
	case screenResults:
		return m.results.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(cat Catalog, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewSessionModel(cat, cfg, "local"), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
