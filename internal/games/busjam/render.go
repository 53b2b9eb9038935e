package busjam

import (
	"strconv"

	platformcore "github.com/vovakirdan/busjam/internal/core"
	"github.com/vovakirdan/busjam/internal/games/busjam/core"
)

const (
	hudHeight = 4
	cellW     = 3 // terminal columns per grid cell
	sideW     = 8 // label column left of the play area
)

// calculateLayout checks that the current level fits the screen.
func (g *Game) calculateLayout() {
	if g.level == nil {
		g.tooSmall = false
		return
	}
	cfg := g.level.Config()
	neededW := sideW + max(cfg.GridColumns*cellW, cfg.StandCount*4, 5*6) + 2
	neededH := hudHeight + 6 + cfg.GridRows + 2
	g.tooSmall = g.screenW < neededW || g.screenH < neededH
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	switch {
	case len(g.settings.Levels) == 0:
		g.renderOverlay(dst, "No levels found", "Check the levels directory")
		return
	case g.finished:
		g.renderOverlay(dst, "You Win!", "All levels cleared")
		return
	case g.loadErr != nil:
		g.renderOverlay(dst, "Level failed to load", g.loadErr.Error())
		return
	case g.tooSmall:
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	case g.level == nil:
		return
	}

	y := hudHeight + 1
	g.renderBuses(dst, y)
	g.renderStands(dst, y+2)
	g.renderLane(dst, y+4)
	g.renderGrid(dst, y+5)

	if g.screenH > 0 {
		dst.DrawTextWithColor(1, g.screenH-1, g.status, g.statusColor)
	}

	switch {
	case g.level.Completed() && g.level.Outcome().Won:
		g.renderOverlay(dst, "Level Cleared!", "Enter: next level")
	case g.level.Completed():
		g.renderOverlay(dst, "Level Lost ("+g.level.Outcome().Reason+")", "Enter or R: try again")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := " BusJam"
	if g.level != nil {
		cfg := g.level.Config()
		st := g.level.Stats()
		hud += " | Level " + strconv.Itoa(g.levelIndex+1) + "/" + strconv.Itoa(len(g.settings.Levels)) +
			": " + cfg.Name +
			" | Moves: " + strconv.Itoa(st.Moves) +
			" | Seated: " + strconv.Itoa(st.Seated) + "/" + strconv.Itoa(len(g.level.Customers()))
	}
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorCyan)
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)
	dst.DrawTextWithColor(0, 2,
		" ←↑↓→: Move | Space: Select | H: Hint | R: Restart | N: Next | P: Pause | Q: Quit",
		platformcore.ColorGray)
	dst.DrawHLine(0, 3, dst.Width(), '─', platformcore.ColorGray)
}

// renderBuses draws the bus queue, front bus first.
func (g *Game) renderBuses(dst *platformcore.Screen, y int) {
	dst.DrawTextWithColor(1, y, "Buses", platformcore.ColorGray)
	x := sideW
	for i, b := range g.level.Queue().Buses() {
		label := busLabel(b)
		if x+len([]rune(label)) >= dst.Width() {
			dst.DrawTextWithColor(x, y, "…", platformcore.ColorGray)
			return
		}
		color := colorFor(b.Color)
		if i == 0 {
			dst.DrawTextWithColor(x, y, label, brighten(color))
		} else {
			dst.DrawTextWithColor(x, y, label, color)
		}
		x += len([]rune(label)) + 1
	}
}

// busLabel renders a bus as its color letter plus one mark per seat.
func busLabel(b *core.Bus) string {
	runes := []rune{'[', b.Color.Char()}
	for i := 0; i < b.Capacity(); i++ {
		if i < b.Assigned() {
			runes = append(runes, '●')
		} else {
			runes = append(runes, '○')
		}
	}
	return string(append(runes, ']'))
}

// renderStands draws the waiting stands.
func (g *Game) renderStands(dst *platformcore.Screen, y int) {
	dst.DrawTextWithColor(1, y, "Stands", platformcore.ColorGray)
	for i, s := range g.level.Stands().Stands() {
		x := sideW + i*4
		dst.DrawTextWithColor(x, y, "[ ]", platformcore.ColorGray)
		if c := s.Occupant(); c != nil {
			r := c.Color.Char()
			if c.State() == core.StateAwaitingStand {
				r = lower(r)
			}
			dst.SetWithColor(x+1, y, r, colorFor(c.Color))
		} else if s.Spent() {
			dst.SetWithColor(x+1, y, '×', platformcore.ColorGray)
		}
	}
}

// renderLane draws the exit lane between the stands and the grid.
func (g *Game) renderLane(dst *platformcore.Screen, y int) {
	cols := g.level.Config().GridColumns
	dst.DrawTextWithColor(1, y, "Exit", platformcore.ColorGray)
	dst.DrawHLine(sideW, y, cols*cellW, '═', platformcore.ColorGray)
}

// renderGrid draws the customer grid with the front row at the top.
// Reachable customers are upper case, stuck ones lower case.
func (g *Game) renderGrid(dst *platformcore.Screen, y int) {
	cfg := g.level.Config()
	for row := 0; row < cfg.GridRows; row++ {
		for col := 0; col < cfg.GridColumns; col++ {
			x := sideW + col*cellW
			sy := y + row
			cell := g.level.Grid().At(col, row)
			g.renderCell(dst, x, sy, cell)

			if g.cursor.Col == col && g.cursor.Row == row {
				dst.SetWithColor(x, sy, '[', platformcore.ColorBrightYellow)
				dst.SetWithColor(x+2, sy, ']', platformcore.ColorBrightYellow)
			}
		}
	}
}

func (g *Game) renderCell(dst *platformcore.Screen, x, y int, cell *core.Cell) {
	switch {
	case cell == nil:
		return
	case !cell.Walkable:
		dst.DrawTextWithColor(x, y, "▓▓▓", platformcore.ColorGray)
	case cell.Gate() != nil:
		pending := cell.Gate().Len()
		label := "G"
		if pending > 9 {
			label += "+"
		} else {
			label += strconv.Itoa(pending)
		}
		dst.DrawTextWithColor(x+1, y, label, platformcore.ColorWhite)
	default:
		c := g.level.CustomerAt(cell.Col, cell.Row)
		if c == nil {
			dst.SetWithColor(x+1, y, '·', platformcore.ColorGray)
			return
		}
		r := c.Color.Char()
		color := colorFor(c.Color)
		if c.CanReach() {
			color = brighten(color)
		} else {
			r = lower(r)
		}
		dst.SetWithColor(x+1, y, r, color)
	}
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	w := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := dst.Bounds().CenterIn(w, 5)
	dst.DrawRect(box.Inset(1), ' ', platformcore.ColorDefault)
	dst.DrawBox(box, platformcore.ColorWhite)
	dst.DrawTextCentered(box.Y+1, line1, platformcore.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+3, line2, platformcore.ColorGray)
}

// colorFor maps level colors to terminal colors.
func colorFor(c core.Color) platformcore.Color {
	switch c {
	case core.ColorRed:
		return platformcore.ColorRed
	case core.ColorGreen:
		return platformcore.ColorGreen
	case core.ColorBlue:
		return platformcore.ColorBlue
	case core.ColorYellow:
		return platformcore.ColorYellow
	case core.ColorPurple:
		return platformcore.ColorMagenta
	case core.ColorOrange:
		return platformcore.ColorOrange
	default:
		return platformcore.ColorWhite
	}
}

// brighten returns the bright variant of a basic terminal color.
func brighten(c platformcore.Color) platformcore.Color {
	switch c {
	case platformcore.ColorRed:
		return platformcore.ColorBrightRed
	case platformcore.ColorGreen:
		return platformcore.ColorBrightGreen
	case platformcore.ColorYellow:
		return platformcore.ColorBrightYellow
	case platformcore.ColorBlue:
		return platformcore.ColorBrightBlue
	case platformcore.ColorMagenta:
		return platformcore.ColorBrightMagenta
	default:
		return c
	}
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
