package core

import "fmt"

// MaxGridSide bounds both grid dimensions.
const MaxGridSide = 10

// DefaultSeatsPerBus is the group size used when a level leaves it unset.
const DefaultSeatsPerBus = 3

// LevelConfig describes one level. Zero values select defaults where noted.
type LevelConfig struct {
	ID   string
	Name string

	GridColumns int     // [0,10]
	GridRows    int     // [0,10]
	Blocked     []Coord // permanently non-walkable cells

	StandCount  int
	StandTarget int // occupied stands needed to avoid a loss; 0 = StandCount
	GateCount   int

	BusCount    int     // 0 = walkable cells / SeatsPerBus, or len(BusColors)
	SeatsPerBus int     // 0 = DefaultSeatsPerBus; also the customer group size
	BusColors   []Color // fixed bus colors, cycled; empty = random from Palette
	Palette     []Color // empty = AllColors()

	// CustomerColors overrides the per-bus groups with an explicit pool.
	CustomerColors []Color

	RequireGatesEmpty bool // win also needs every gate empty
	DeadlockIsLoss    bool // full stands with no standing match also lose
}

// Seats returns the effective seats per bus.
func (c LevelConfig) Seats() int {
	if c.SeatsPerBus > 0 {
		return c.SeatsPerBus
	}
	return DefaultSeatsPerBus
}

// Target returns the effective stand target.
func (c LevelConfig) Target() int {
	if c.StandTarget > 0 {
		return c.StandTarget
	}
	return c.StandCount
}

// Colors returns the effective palette.
func (c LevelConfig) Colors() []Color {
	if len(c.Palette) > 0 {
		return c.Palette
	}
	return AllColors()
}

// WalkableCells returns the number of grid cells not listed as blocked.
func (c LevelConfig) WalkableCells() int {
	blocked := make(map[Coord]bool, len(c.Blocked))
	for _, b := range c.Blocked {
		if b.Col >= 0 && b.Col < c.GridColumns && b.Row >= 0 && b.Row < c.GridRows {
			blocked[b] = true
		}
	}
	return c.GridColumns*c.GridRows - len(blocked)
}

// Buses returns the effective number of buses.
func (c LevelConfig) Buses() int {
	switch {
	case c.BusCount > 0:
		return c.BusCount
	case len(c.BusColors) > 0:
		return len(c.BusColors)
	default:
		return (c.WalkableCells() - c.GateCount) / c.Seats()
	}
}

// Validate checks the configuration before a level is built.
func (c LevelConfig) Validate() error {
	if c.GridColumns < 0 || c.GridColumns > MaxGridSide {
		return invalid("GRID_COLUMNS", "grid columns %d outside [0,%d]", c.GridColumns, MaxGridSide)
	}
	if c.GridRows < 0 || c.GridRows > MaxGridSide {
		return invalid("GRID_ROWS", "grid rows %d outside [0,%d]", c.GridRows, MaxGridSide)
	}
	if c.GridColumns*c.GridRows == 0 {
		return invalid("EMPTY_GRID", "grid %dx%d has no cells", c.GridColumns, c.GridRows)
	}
	if c.StandCount < 0 {
		return invalid("STAND_COUNT", "negative stand count %d", c.StandCount)
	}
	if c.StandTarget < 0 {
		return invalid("STAND_TARGET", "negative stand target %d", c.StandTarget)
	}
	if c.GateCount < 0 {
		return invalid("GATE_COUNT", "negative gate count %d", c.GateCount)
	}
	if c.BusCount < 0 || c.SeatsPerBus < 0 {
		return invalid("BUS_COUNT", "negative bus count %d or seats %d", c.BusCount, c.SeatsPerBus)
	}
	for _, b := range c.Blocked {
		if b.Col < 0 || b.Col >= c.GridColumns || b.Row < 0 || b.Row >= c.GridRows {
			return invalid("BLOCKED_CELL", "blocked cell (%d,%d) outside grid", b.Col, b.Row)
		}
	}
	if c.WalkableCells() <= c.GateCount {
		return invalid("NO_WALKABLE", "%d walkable cells cannot hold %d gates", c.WalkableCells(), c.GateCount)
	}
	for _, col := range append(append(append([]Color(nil), c.BusColors...), c.Palette...), c.CustomerColors...) {
		if col >= ColorCount {
			return invalid("INVALID_COLOR", "unknown color %d", col)
		}
	}
	if c.Buses() <= 0 {
		return invalid("NO_BUSES", "level %q produces no buses", c.ID)
	}
	if n := len(c.CustomerColors); n > 0 && n != c.Buses()*c.Seats() {
		return invalid("CUSTOMER_COLORS", "%d customers for %d buses of %d seats", n, c.Buses(), c.Seats())
	}
	return nil
}

// String returns a short description for logs.
func (c LevelConfig) String() string {
	return fmt.Sprintf("%s %dx%d stands=%d gates=%d buses=%d",
		c.ID, c.GridColumns, c.GridRows, c.StandCount, c.GateCount, c.Buses())
}
