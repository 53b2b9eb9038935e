// Package tui runs BusJam in the terminal with Bubble Tea.
// It owns the frame loop, key bindings, menus and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation step. Gen identifies the game model that
// scheduled it, so ticks left over from an earlier game are dropped.
type TickMsg struct {
	Gen  int
	Time time.Time
}

// tickCmd schedules the next TickMsg at the given rate.
func tickCmd(tickRate, gen int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 30
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}
