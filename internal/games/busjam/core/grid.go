package core

// Cell is one grid slot customers can stand on.
type Cell struct {
	ID       EntityID
	Col      int
	Row      int
	Pos      Vec
	Walkable bool
	Active   bool

	gate *Gate // gate occupying this cell, if any
}

// Coord returns the cell's grid coordinate.
func (c *Cell) Coord() Coord {
	return Coord{Col: c.Col, Row: c.Row}
}

// Gate returns the gate placed on this cell, or nil.
func (c *Cell) Gate() *Gate {
	return c.gate
}

// GridPool owns grid cells across levels. The pool only grows; cells beyond
// the current level's size stay allocated but inactive.
type GridPool struct {
	anchor  Vec
	spacing float64
	ids     *idAlloc

	cells   []*Cell
	visible []*Cell
	cols    int
	rows    int
}

// NewGridPool creates an empty pool. Row 0 sits at anchor.Y and rows grow
// along +Y; columns are centered on anchor.X.
func NewGridPool(anchor Vec, spacing float64, ids *idAlloc) *GridPool {
	return &GridPool{anchor: anchor, spacing: spacing, ids: ids}
}

// Update lays out a cols x rows grid, growing the pool if needed and
// deactivating cells beyond the requested size. Returns the visible cells in
// row-major order.
func (p *GridPool) Update(cols, rows int) []*Cell {
	need := cols * rows
	for len(p.cells) < need {
		p.cells = append(p.cells, &Cell{ID: p.ids.Next()})
	}

	p.cols, p.rows = cols, rows
	p.visible = p.visible[:0]
	offset := float64(cols-1) * p.spacing / 2

	for i, c := range p.cells {
		if i >= need {
			c.Active = false
			c.gate = nil
			continue
		}
		c.Col = i % cols
		c.Row = i / cols
		c.Pos = Vec{
			X: p.anchor.X + float64(c.Col)*p.spacing - offset,
			Y: p.anchor.Y + float64(c.Row)*p.spacing,
		}
		c.Walkable = true
		c.Active = true
		c.gate = nil
		p.visible = append(p.visible, c)
	}
	return p.visible
}

// Visible returns the active cells in row-major order.
func (p *GridPool) Visible() []*Cell {
	return p.visible
}

// Size returns the current grid dimensions.
func (p *GridPool) Size() (cols, rows int) {
	return p.cols, p.rows
}

// Cap returns how many cells the pool has ever allocated.
func (p *GridPool) Cap() int {
	return len(p.cells)
}

// At returns the visible cell at (col,row) or nil.
func (p *GridPool) At(col, row int) *Cell {
	if col < 0 || row < 0 || col >= p.cols || row >= p.rows {
		return nil
	}
	return p.visible[row*p.cols+col]
}

// Neighbors returns the 4-connected visible neighbours of c.
func (p *GridPool) Neighbors(c *Cell) []*Cell {
	out := make([]*Cell, 0, 4)
	for _, d := range [4]Coord{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		if n := p.At(c.Col+d.Col, c.Row+d.Row); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// LanePosition returns the position of exit lane slot col, one row in front
// of row 0.
func (p *GridPool) LanePosition(col int) Vec {
	offset := float64(p.cols-1) * p.spacing / 2
	return Vec{
		X: p.anchor.X + float64(col)*p.spacing - offset,
		Y: p.anchor.Y - p.spacing,
	}
}

// Spacing returns the distance between adjacent cells.
func (p *GridPool) Spacing() float64 {
	return p.spacing
}

// Clear deactivates every cell.
func (p *GridPool) Clear() {
	for _, c := range p.cells {
		c.Active = false
		c.gate = nil
	}
	p.visible = p.visible[:0]
	p.cols, p.rows = 0, 0
}
