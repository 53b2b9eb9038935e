package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandPoolConservation(t *testing.T) {
	var ids idAlloc
	p := NewStandPool(Vec{}, 1, &ids)
	p.Setup(3)

	var held []*Stand
	for i := 0; i < 5; i++ {
		s, ok := p.Allocate(NewCustomer(EntityID(100+i), ColorRed))
		if ok {
			held = append(held, s)
		}
		assert.Equal(t, p.Total(), p.FreeCount()+p.OccupiedCount())
	}
	require.Len(t, held, 3)
	assert.Equal(t, 0, p.FreeCount())

	require.True(t, p.Release(held[1]))
	assert.False(t, p.Release(held[1]), "double release is a no-op")
	assert.Equal(t, 1, p.FreeCount())
	assert.Equal(t, p.Total(), p.FreeCount()+p.OccupiedCount())
}

func TestStandPoolAllocatesFirstFree(t *testing.T) {
	var ids idAlloc
	p := NewStandPool(Vec{}, 1, &ids)
	p.Setup(3)

	a, _ := p.Allocate(NewCustomer(1, ColorRed))
	b, _ := p.Allocate(NewCustomer(2, ColorRed))
	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)

	p.Release(a)
	c, _ := p.Allocate(NewCustomer(3, ColorRed))
	assert.Equal(t, 2, c.Index, "released stands rejoin the back of the free list")
}

func TestStandPoolFullDoesNotMutate(t *testing.T) {
	var ids idAlloc
	p := NewStandPool(Vec{}, 1, &ids)
	p.Setup(1)
	first := NewCustomer(1, ColorRed)
	_, ok := p.Allocate(first)
	require.True(t, ok)

	s, ok := p.Allocate(NewCustomer(2, ColorBlue))
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.Equal(t, []*Customer{first}, p.Standing())
}

func TestStandPoolLayout(t *testing.T) {
	var ids idAlloc
	p := NewStandPool(Vec{X: 0, Y: -1}, 2, &ids)
	p.Setup(4)

	// Stands at 0,2,4,6 shifted left by 6/2.
	want := []float64{-3, -1, 1, 3}
	for i, s := range p.Stands() {
		assert.InDelta(t, want[i], s.Pos.X, 1e-9)
		assert.InDelta(t, -1, s.Pos.Y, 1e-9)
	}
}

func TestStandPoolLayoutUsesLastXLiterally(t *testing.T) {
	var ids idAlloc
	p := NewStandPool(Vec{X: 4, Y: 0}, 1, &ids)
	p.Setup(3)

	// Stands at 4,5,6, shifted by 6/2 = 3.
	want := []float64{1, 2, 3}
	for i, s := range p.Stands() {
		assert.InDelta(t, want[i], s.Pos.X, 1e-9)
	}
}

func TestStandPoolSetupReusesPooledStands(t *testing.T) {
	var ids idAlloc
	p := NewStandPool(Vec{}, 1, &ids)
	p.Setup(4)
	firstID := p.Stands()[0].ID

	p.Setup(2)
	assert.Equal(t, 2, p.Total())
	assert.Equal(t, firstID, p.Stands()[0].ID)

	p.Clear()
	assert.Equal(t, 0, p.Total())
	_, ok := p.Allocate(NewCustomer(1, ColorRed))
	assert.False(t, ok)
}

func TestStandPoolVacateKeepsStandUsed(t *testing.T) {
	var ids idAlloc
	p := NewStandPool(Vec{}, 1, &ids)
	p.Setup(1)

	s, ok := p.Allocate(NewCustomer(1, ColorBlue))
	require.True(t, ok)
	require.True(t, p.Vacate(s))
	assert.False(t, p.Vacate(s), "a spent stand has no occupant to clear")

	assert.False(t, s.Occupied())
	assert.True(t, s.Spent())
	assert.Empty(t, p.Standing())
	assert.Equal(t, 0, p.FreeCount())
	assert.Equal(t, 1, p.OccupiedCount())
	assert.Equal(t, p.Total(), p.FreeCount()+p.OccupiedCount())

	_, ok = p.Allocate(NewCustomer(2, ColorGreen))
	assert.False(t, ok, "spent stands are not handed out again")

	require.True(t, p.Release(s))
	assert.False(t, s.Spent())
	assert.Equal(t, 1, p.FreeCount())

	p.Setup(1)
	assert.False(t, p.Stands()[0].Spent())
}
