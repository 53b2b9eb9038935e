package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/busjam/internal/storage"
)

// LevelSelection holds the choice made in the level menu.
type LevelSelection struct {
	Level int // 0 = start from the beginning, 1-N = a specific level
}

// StartIndex returns the 0-based level index to start from.
func (s LevelSelection) StartIndex() int {
	if s.Level <= 0 {
		return 0
	}
	return s.Level - 1
}

// LevelMenuModel is the BusJam level picker.
type LevelMenuModel struct {
	cursor       int
	scrollOffset int
	width        int
	height       int
	keyMapper    *KeyMapper
	theme        Theme

	levelNames []string
	records    []string // per-level summary from past runs, may be empty

	selection    LevelSelection
	choosing     bool
	quitting     bool
	back         bool
	wantsResults bool
}

// NewLevelMenuModel creates the picker for the catalog's levels.
func NewLevelMenuModel(cat Catalog, width, height int) LevelMenuModel {
	names := cat.LevelNames()
	return LevelMenuModel{
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		theme:      CurrentTheme(),
		levelNames: names,
		records:    levelRecords(cat),
		choosing:   true,
	}
}

// levelRecords summarizes stored runs for each catalog level.
func levelRecords(cat Catalog) []string {
	records := make([]string, len(cat.Levels))
	if cat.Store == nil {
		return records
	}
	stats, err := cat.Store.GetAllLevelStats()
	if err != nil {
		cat.logger().Warn("could not load level stats", "err", err)
		return records
	}
	for i, lvl := range cat.Levels {
		records[i] = formatRecord(stats[lvl.ID])
	}
	return records
}

func formatRecord(st *storage.LevelStats) string {
	if st == nil || st.Runs == 0 {
		return ""
	}
	if st.Wins == 0 {
		return fmt.Sprintf("%d tries, not cleared", st.Runs)
	}
	return fmt.Sprintf("best %d moves, %d/%d won", st.BestMoves, st.Wins, st.Runs)
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}
	case MenuActionDown:
		if m.cursor < len(m.levelNames) {
			m.cursor++
			m.updateScroll()
		}
	case MenuActionSelect:
		if len(m.levelNames) == 0 {
			return m, nil
		}
		m.choosing = false
		m.selection = LevelSelection{Level: m.cursor}
	case MenuActionResults:
		m.wantsResults = true
	case MenuActionBack:
		m.back = true
	}
	return m, nil
}

func (m LevelMenuModel) visibleItems() int {
	return max(m.height-10, 3)
}

// updateScroll keeps the cursor inside the visible window.
func (m *LevelMenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the level list.
func (m LevelMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.theme.Title.Render("B U S J A M"), m.width))
	b.WriteString("\n\n")

	if len(m.levelNames) == 0 {
		b.WriteString(centerText(m.theme.Description.Render("No levels found."), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.theme.Controls.Render("Q: Quit"), m.width))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(centerText(m.theme.Description.Render("Select a level:"), m.width))
	b.WriteString("\n\n")

	// Entry 0 is "Start from Beginning"; entry i+1 is level i.
	total := len(m.levelNames) + 1
	end := min(m.scrollOffset+m.visibleItems(), total)

	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.Description.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	for entry := m.scrollOffset; entry < end; entry++ {
		b.WriteString(centerText(m.renderEntry(entry), m.width))
		b.WriteString("\n")
	}
	if end < total {
		b.WriteString(centerText(m.theme.Description.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Results  |  Q: Quit"
	b.WriteString(centerText(m.theme.Controls.Render(controls), m.width))
	b.WriteString("\n")
	return b.String()
}

func (m LevelMenuModel) renderEntry(entry int) string {
	cursor := "  "
	style := m.theme.Item
	if entry == m.cursor {
		cursor = "> "
		style = m.theme.ItemActive
	}
	if entry == 0 {
		return style.Render(cursor + "Start from Beginning")
	}

	i := entry - 1
	line := style.Render(fmt.Sprintf("%s%2d. %s", cursor, entry, m.levelNames[i]))
	if i < len(m.records) && m.records[i] != "" {
		line += "  " + m.theme.Description.Render(m.records[i])
	}
	return line
}

// Selected returns the selection, or nil while still choosing.
func (m LevelMenuModel) Selected() *LevelSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if the user wants to quit.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if the user pressed back.
func (m LevelMenuModel) WantsBack() bool {
	return m.back
}

// WantsResults returns true if the user asked for the results screen.
func (m LevelMenuModel) WantsResults() bool {
	return m.wantsResults
}
