package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusSeatCapacity(t *testing.T) {
	f := newFakeCoord()
	b := NewBus(1, ColorRed, 3)
	b.bind(f)

	for i := 0; i < 3; i++ {
		seat, err := b.AssignCustomer(NewCustomer(EntityID(10+i), ColorRed))
		require.NoError(t, err)
		assert.Equal(t, i, seat.Index)
	}
	assert.True(t, b.Full())
	assert.Len(t, f.filled, 1)

	extra := NewCustomer(99, ColorRed)
	seat, err := b.AssignCustomer(extra)
	assert.Nil(t, seat)
	assert.True(t, errors.Is(err, ErrNoSeatsAvailable))
	assert.Equal(t, 3, b.Assigned())
	assert.Nil(t, b.SeatOf(extra))
	assert.Equal(t, StateUnassigned, extra.State())
}

func TestBusBoardingLifecycle(t *testing.T) {
	f := newFakeCoord()
	b := NewBus(1, ColorBlue, 2)
	b.bind(f)

	c1 := NewCustomer(10, ColorBlue)
	c2 := NewCustomer(11, ColorBlue)
	c1.SetPosition(Vec{X: 5})
	c2.SetPosition(Vec{X: 5})
	_, err := b.AssignCustomer(c1)
	require.NoError(t, err)
	assert.Equal(t, StateToBus, c1.State())
	assert.Equal(t, HolderSeat, c1.Holder())
	assert.Empty(t, f.filled)

	_, err = b.AssignCustomer(c2)
	require.NoError(t, err)
	assert.Len(t, f.filled, 1, "queue advance is requested as soon as the last seat is taken")
	assert.True(t, b.Departing())
	assert.False(t, b.Departed())

	// Travel (2 ticks) then scale-in (1 tick).
	f.run(3)
	assert.Equal(t, []*Customer{c1, c2}, f.seated)
	assert.Equal(t, StateSeated, c1.State())

	// Departure waits on travels, then drives off.
	f.run(2)
	assert.True(t, b.Departed())
	assert.Equal(t, []*Bus{b}, f.departed)
}

func TestBusDepartureWaitsForCancelledTravel(t *testing.T) {
	f := newFakeCoord()
	b := NewBus(1, ColorGreen, 1)
	b.bind(f)

	c := NewCustomer(10, ColorGreen)
	_, err := b.AssignCustomer(c)
	require.NoError(t, err)

	c.removed = true
	f.sched.CancelOwner(c.ID())
	f.run(2)
	assert.Empty(t, f.seated)
	assert.True(t, b.Departed(), "a cancelled walk still releases the bus")
}

func TestBusUnboundRejectsAssignment(t *testing.T) {
	b := NewBus(1, ColorRed, 1)
	_, err := b.AssignCustomer(NewCustomer(2, ColorRed))
	assert.Error(t, err)
	assert.Equal(t, 0, b.Assigned())
}
