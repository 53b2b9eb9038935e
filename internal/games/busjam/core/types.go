package core

import "github.com/vovakirdan/busjam/internal/games/busjam/nav"

// Vec is a position in level space.
type Vec = nav.Vec

// EntityID identifies any spawned entity within a level: cells, stands,
// buses, customers and gates share one id space so the scheduler can cancel
// work by owner.
type EntityID int

// NoEntity is the zero owner, used for work not tied to an entity.
const NoEntity EntityID = 0

// Coord is a grid coordinate. Row 0 is the row closest to the boarding lane.
type Coord struct {
	Col int
	Row int
}

// idAlloc hands out level-unique entity ids starting at 1.
type idAlloc struct {
	next EntityID
}

func (a *idAlloc) Next() EntityID {
	a.next++
	return a.next
}
