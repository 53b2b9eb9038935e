package core

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSliceSize(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Equal(t, 0, gateSliceSize(rng, 0))
	for i := 0; i < 20; i++ {
		assert.Equal(t, 1, gateSliceSize(rng, 1), "a single remaining customer still goes to the gate")
		assert.Equal(t, 1, gateSliceSize(rng, 2))
	}
	for i := 0; i < 200; i++ {
		n := gateSliceSize(rng, 9)
		assert.GreaterOrEqual(t, n, 1)
		assert.Less(t, n, 9)
	}
}

func TestDistributeToGatesContiguousSlices(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var pool []*Customer
	for i := 0; i < 10; i++ {
		pool = append(pool, NewCustomer(EntityID(i+1), ColorRed))
	}
	cell := &Cell{Pos: Vec{X: 2, Y: 2}}
	gates := []*Gate{{ID: 100, Cell: cell}, {ID: 101, Cell: cell}}

	rest := distributeToGates(rng, pool, gates)

	var order []*Customer
	for _, g := range gates {
		require.False(t, g.Empty())
		order = append(order, g.Pending()...)
		for _, c := range g.Pending() {
			assert.Equal(t, HolderGate, c.Holder())
			assert.Equal(t, g, c.Gate())
			assert.Equal(t, 0.0, c.Scale())
		}
	}
	order = append(order, rest...)
	assert.Equal(t, pool, order, "gates take consecutive runs of the shuffled pool")
}

func TestDistributeToGatesSingleCustomer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := NewCustomer(1, ColorBlue)
	gates := []*Gate{{ID: 10, Cell: &Cell{}}, {ID: 11, Cell: &Cell{}}}

	rest := distributeToGates(rng, []*Customer{c}, gates)
	assert.Empty(t, rest)
	assert.Equal(t, 1, gates[0].Len())
	assert.True(t, gates[1].Empty(), "empty remainder is skipped")
}
