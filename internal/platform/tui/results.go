package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/busjam/internal/storage"
)

// Results layout constants
const (
	minWidthForSidebar = 90
	sidebarWidth       = 24
	maxResults         = 100
)

// ResultsKeyMap defines the key bindings for the results screen.
type ResultsKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextLevel, k.PrevLevel, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextLevel, k.PrevLevel},
		{k.Back, k.Quit},
	}
}

// DefaultResultsKeyMap returns the default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("right/tab", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("left/S-tab", "prev level"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// resultsTab is one entry of the level switcher; an empty id means all levels.
type resultsTab struct {
	id    string
	title string
}

// ResultsModel lists recorded runs per level.
type ResultsModel struct {
	store   *storage.Store
	tabs    []resultsTab
	tab     int
	results []storage.Result
	stats   *storage.LevelStats

	table table.Model
	help  help.Model
	keys  ResultsKeyMap
	theme Theme

	width       int
	height      int
	showSidebar bool
	standalone  bool
	quitting    bool
	goingBack   bool
}

// NewResultsModel creates the results screen for the catalog.
func NewResultsModel(cat Catalog, width, height int) ResultsModel {
	tabs := []resultsTab{{title: "All levels"}}
	for _, lvl := range cat.Levels {
		tabs = append(tabs, resultsTab{id: lvl.ID, title: lvl.Name})
	}

	h := help.New()
	h.ShowAll = false

	m := ResultsModel{
		store:       cat.Store,
		tabs:        tabs,
		help:        h,
		keys:        DefaultResultsKeyMap(),
		theme:       CurrentTheme(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadResults()
	return m
}

func (m *ResultsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Level", Width: 14},
		{Title: "Result", Width: 14},
		{Title: "Moves", Width: 6},
		{Title: "Ticks", Width: 7},
		{Title: "Mode", Width: 9},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.HeaderBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(m.theme.SelectedFg).
		Background(m.theme.SelectedBg).
		Bold(false)
	t.SetStyles(s)
	return t
}

// loadResults reads the runs for the current tab.
func (m *ResultsModel) loadResults() {
	m.results = nil
	m.stats = nil
	if m.store != nil {
		id := m.tabs[m.tab].id
		if results, err := m.store.RecentResults(id, maxResults); err == nil {
			m.results = results
		}
		if id != "" {
			if st, err := m.store.GetLevelStats(id); err == nil {
				m.stats = st
			}
		}
	}
	m.updateTableRows()
}

func (m *ResultsModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			r.LevelID,
			outcomeLabel(r),
			fmt.Sprintf("%d", r.Moves),
			fmt.Sprintf("%d", r.Ticks),
			r.Mode,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func outcomeLabel(r storage.Result) string {
	if r.Won {
		return "cleared"
	}
	return "lost: " + r.Reason
}

// Init initializes the results model.
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results screen.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextLevel):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.loadResults()
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			m.tab = (m.tab - 1 + len(m.tabs)) % len(m.tabs)
			m.loadResults()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the results screen.
func (m ResultsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "RESULTS - " + m.tabs[m.tab].title
	b.WriteString(centerText(m.theme.Title.Render(title), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	if line := m.statsLine(); line != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.theme.Description.Render(line), m.width))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Controls.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ResultsModel) statsLine() string {
	if m.stats == nil || m.stats.Runs == 0 {
		return ""
	}
	line := fmt.Sprintf("%d runs, %d won (%.0f%%), avg %.1f moves",
		m.stats.Runs, m.stats.Wins, m.stats.WinRate()*100, m.stats.AvgMoves)
	if m.stats.BestMoves > 0 {
		line += fmt.Sprintf(", best %d", m.stats.BestMoves)
	}
	return line
}

func (m ResultsModel) panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(0, 1)
}

// renderWideLayout puts the level list in a sidebar next to the table.
func (m ResultsModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Levels\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, t := range m.tabs {
		cursor := "  "
		style := m.theme.Item
		if i == m.tab {
			cursor = "> "
			style = m.theme.ItemActive
		}
		name := []rune(t.title)
		if maxLen := sidebarWidth - 6; len(name) > maxLen {
			name = append(name[:maxLen-1], '.')
		}
		sidebar.WriteString(style.Render(cursor + string(name)))
		sidebar.WriteString("\n")
	}

	side := m.panelStyle().Width(sidebarWidth).Render(sidebar.String())
	content := m.panelStyle().Render(m.renderTableContent())
	return lipgloss.JoinHorizontal(lipgloss.Top, side, "  ", content)
}

// renderNarrowLayout shows the current level as a tab line above the table.
func (m ResultsModel) renderNarrowLayout() string {
	var b strings.Builder
	b.WriteString(centerText(fmt.Sprintf("< %s >", m.tabs[m.tab].title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.panelStyle().Render(m.renderTableContent()), m.width))
	return b.String()
}

func (m ResultsModel) renderTableContent() string {
	if len(m.results) == 0 {
		return m.theme.EmptyMessage.Render("No runs recorded yet.\nClear a level to see it here!")
	}
	return m.table.View()
}

// IsGoingBack returns true if the user wants to go back to the menu.
func (m ResultsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if the user wants to quit entirely.
func (m ResultsModel) IsQuitting() bool {
	return m.quitting
}

// RunResults shows the results screen on its own.
func RunResults(cat Catalog, width, height int) error {
	model := NewResultsModel(cat, width, height)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
