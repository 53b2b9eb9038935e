package core

import (
	"math/rand"

	"github.com/vovakirdan/busjam/internal/games/busjam/nav"
)

// Gate holds customers off the grid and releases them one at a time onto its
// release cell whenever that cell can be reached from the gate.
type Gate struct {
	ID      EntityID
	Cell    *Cell
	Release *Cell

	obstacle *nav.Obstacle
	pending  []*Customer
	released int
}

// Pending returns a copy of the waiting customers, next first.
func (g *Gate) Pending() []*Customer {
	return append([]*Customer(nil), g.pending...)
}

// Len returns how many customers wait in the gate.
func (g *Gate) Len() int {
	return len(g.pending)
}

// Empty reports whether no customer waits in the gate.
func (g *Gate) Empty() bool {
	return len(g.pending) == 0
}

// Released returns how many customers the gate has let out.
func (g *Gate) Released() int {
	return g.released
}

// Enqueue appends customers to the gate FIFO.
func (g *Gate) Enqueue(cs ...*Customer) {
	for _, c := range cs {
		c.holder = HolderGate
		c.state = StateUnassigned
		c.gate = g
		c.pos = g.Cell.Pos
		c.scale = 0
		g.pending = append(g.pending, c)
	}
}

// CanRelease reports whether the next customer could step onto the release cell.
func (g *Gate) CanRelease(o *Oracle) bool {
	if g.Empty() || g.Release == nil {
		return false
	}
	return o.CanReach(g.obstacle, g.Cell.Pos, g.Release.Pos)
}

// next pops the first waiting customer.
func (g *Gate) next() *Customer {
	if g.Empty() {
		return nil
	}
	c := g.pending[0]
	g.pending[0] = nil
	g.pending = g.pending[1:]
	g.released++
	return c
}

// gateSliceSize picks how many of the remaining customers the next gate takes:
// a random count in [1, remaining), and 1 when only one is left.
func gateSliceSize(rng *rand.Rand, remaining int) int {
	if remaining <= 0 {
		return 0
	}
	if remaining == 1 {
		return 1
	}
	n := 1 + rng.Intn(remaining-1)
	return max(1, n)
}

// distributeToGates hands each gate a contiguous slice of pool and returns
// the customers left over for the grid.
func distributeToGates(rng *rand.Rand, pool []*Customer, gates []*Gate) []*Customer {
	for _, g := range gates {
		n := gateSliceSize(rng, len(pool))
		if n == 0 {
			break
		}
		g.Enqueue(pool[:n]...)
		pool = pool[n:]
	}
	return pool
}
