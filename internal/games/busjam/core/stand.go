package core

// Stand is a waiting slot for a customer whose bus has not arrived yet.
type Stand struct {
	ID     EntityID
	Index  int
	Pos    Vec
	Active bool

	occupant *Customer
	spent    bool
}

// Occupant returns the customer holding the stand, or nil.
func (s *Stand) Occupant() *Customer {
	return s.occupant
}

// Occupied reports whether a customer holds the stand.
func (s *Stand) Occupied() bool {
	return s.occupant != nil
}

// Spent reports whether the stand's customer has left for a bus. A spent
// stand stays used for the rest of the level.
func (s *Stand) Spent() bool {
	return s.spent
}

// StandPool hands out stands first-free-first. Stands are allocated once per
// level by Setup and never grow at runtime.
type StandPool struct {
	anchor  Vec
	spacing float64
	ids     *idAlloc

	all    []*Stand // pooled, may exceed the level's count
	active []*Stand
	free   []*Stand
}

// NewStandPool creates an empty pool spawning stands from anchor.
func NewStandPool(anchor Vec, spacing float64, ids *idAlloc) *StandPool {
	return &StandPool{anchor: anchor, spacing: spacing, ids: ids}
}

// Setup activates count stands, all free, and lays them out.
func (p *StandPool) Setup(count int) {
	if count < 0 {
		count = 0
	}
	for len(p.all) < count {
		p.all = append(p.all, &Stand{ID: p.ids.Next(), Index: len(p.all)})
	}
	p.active = p.active[:0]
	p.free = p.free[:0]
	for i, s := range p.all {
		s.occupant = nil
		s.spent = false
		s.Active = i < count
		if s.Active {
			p.active = append(p.active, s)
			p.free = append(p.free, s)
		}
	}
	p.Layout()
}

// Layout places stand i at anchor + spacing*i along X, then shifts the row
// left by half of the last stand's X.
func (p *StandPool) Layout() {
	if len(p.active) == 0 {
		return
	}
	for i, s := range p.active {
		s.Pos = Vec{X: p.anchor.X + p.spacing*float64(i), Y: p.anchor.Y}
	}
	shift := p.active[len(p.active)-1].Pos.X / 2
	for _, s := range p.active {
		s.Pos.X -= shift
	}
}

// Allocate gives c the first free stand. Returns false when every stand is
// occupied; the pool is unchanged in that case.
func (p *StandPool) Allocate(c *Customer) (*Stand, bool) {
	if len(p.free) == 0 {
		return nil, false
	}
	s := p.free[0]
	p.free = p.free[1:]
	s.occupant = c
	return s, true
}

// Vacate clears the occupant of s when it boards a bus. The stand is not
// returned to the free list. Returns false for a stand with no occupant.
func (p *StandPool) Vacate(s *Stand) bool {
	if s == nil || !s.Active || s.occupant == nil {
		return false
	}
	s.occupant = nil
	s.spent = true
	return true
}

// Release returns an occupied or spent stand to the free list. Levels never
// release stands mid-run. Releasing a free or foreign stand is a no-op
// returning false.
func (p *StandPool) Release(s *Stand) bool {
	if s == nil || !s.Active || (s.occupant == nil && !s.spent) {
		return false
	}
	s.occupant = nil
	s.spent = false
	p.free = append(p.free, s)
	return true
}

// Stands returns the active stands in layout order.
func (p *StandPool) Stands() []*Stand {
	return p.active
}

// Total returns the number of active stands.
func (p *StandPool) Total() int {
	return len(p.active)
}

// FreeCount returns the number of free stands.
func (p *StandPool) FreeCount() int {
	return len(p.free)
}

// OccupiedCount returns the number of stands taken so far, spent ones included.
func (p *StandPool) OccupiedCount() int {
	return len(p.active) - len(p.free)
}

// Standing returns the customers currently holding stands, in stand order.
func (p *StandPool) Standing() []*Customer {
	var out []*Customer
	for _, s := range p.active {
		if s.occupant != nil {
			out = append(out, s.occupant)
		}
	}
	return out
}

// Clear frees and deactivates every stand.
func (p *StandPool) Clear() {
	for _, s := range p.all {
		s.occupant = nil
		s.spent = false
		s.Active = false
	}
	p.active = p.active[:0]
	p.free = p.free[:0]
}
