package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/busjam/internal/games/busjam/nav"
)

func newTestRegistry(cols, rows int) (*Registry, *nav.Graph) {
	g := laneGraph(cols, rows)
	r := NewRegistry(NewOracle(g, nil), nav.V(0, 0), nil)
	return r, g
}

func placeAt(r *Registry, g *nav.Graph, id EntityID, col, row int) *Customer {
	c := NewCustomer(id, ColorRed)
	c.placeOnCell(&Cell{Col: col, Row: row, Pos: cellPos(col, row), Walkable: true, Active: true}, g)
	r.Add(c)
	return c
}

func TestRegistryCoalescesRecomputes(t *testing.T) {
	r, g := newTestRegistry(3, 2)
	placeAt(r, g, 1, 0, 0)
	placeAt(r, g, 2, 1, 1)

	r.RequestRecompute()
	r.RequestRecompute()
	require.True(t, r.Pending())

	assert.True(t, r.Flush())
	assert.False(t, r.Flush())
	assert.Equal(t, 1, r.Batches())
	assert.False(t, r.Pending())
}

func TestRegistryAvailability(t *testing.T) {
	r, g := newTestRegistry(1, 3)
	front := placeAt(r, g, 1, 0, 0)
	middle := placeAt(r, g, 2, 0, 1)
	r.Flush()

	assert.True(t, front.CanReach())
	assert.False(t, middle.CanReach(), "single column is blocked by the front customer")
	assert.Equal(t, []*Customer{front}, r.Available())

	front.leaveGrid()
	r.RequestRecompute()
	r.Flush()
	assert.True(t, middle.CanReach())
}

func TestRegistryRemoveLiftsObstacle(t *testing.T) {
	r, g := newTestRegistry(1, 2)
	front := placeAt(r, g, 1, 0, 0)
	back := placeAt(r, g, 2, 0, 1)
	r.Flush()
	require.False(t, back.CanReach())

	require.True(t, r.Remove(front))
	assert.False(t, r.Remove(front))
	assert.False(t, r.Contains(front))
	assert.True(t, r.Pending())

	r.Flush()
	assert.True(t, back.CanReach())
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDuplicateAdd(t *testing.T) {
	r, g := newTestRegistry(2, 1)
	c := placeAt(r, g, 1, 0, 0)
	assert.False(t, r.Add(c))
	assert.Equal(t, 1, r.Len())
}

func TestRegistrySkipsCustomersOffGrid(t *testing.T) {
	r, g := newTestRegistry(2, 1)
	c := placeAt(r, g, 1, 0, 0)
	r.Flush()
	require.True(t, c.CanReach())

	c.holder = HolderStand
	c.state = StateAwaitingStand
	r.Recompute()
	assert.False(t, c.CanReach())
	assert.Empty(t, r.Available())
}

func TestRegistryRecomputeClearsBlocked(t *testing.T) {
	r, g := newTestRegistry(2, 1)
	c := placeAt(r, g, 1, 0, 0)
	r.Flush()
	c.blocked = true
	assert.False(t, c.Available())

	r.RequestRecompute()
	r.Flush()
	assert.True(t, c.Available())
}
