package core

import "fmt"

// Seat is one slot on a bus.
type Seat struct {
	Index    int
	customer *Customer
}

// Customer returns the customer assigned to the seat, or nil.
func (s *Seat) Customer() *Customer {
	return s.customer
}

// Bus carries customers of one color. Seats are fixed at creation and are
// handed out in order.
type Bus struct {
	id    EntityID
	Color Color

	pos   Vec
	scale float64

	seats    []*Seat
	free     []*Seat
	assigned map[EntityID]*Seat
	travels  []*Signal

	coord     Coordinator
	departing bool
	departed  bool
	removed   bool
}

// NewBus creates an empty bus with capacity seats.
func NewBus(id EntityID, color Color, capacity int) *Bus {
	b := &Bus{
		id:       id,
		Color:    color,
		scale:    1,
		assigned: make(map[EntityID]*Seat, capacity),
	}
	for i := 0; i < capacity; i++ {
		s := &Seat{Index: i}
		b.seats = append(b.seats, s)
		b.free = append(b.free, s)
	}
	return b
}

// ID implements Body.
func (b *Bus) ID() EntityID { return b.id }

// Position implements Body.
func (b *Bus) Position() Vec { return b.pos }

// SetPosition implements Body.
func (b *Bus) SetPosition(p Vec) { b.pos = p }

// Scale implements Body.
func (b *Bus) Scale() float64 { return b.scale }

// SetScale implements Body.
func (b *Bus) SetScale(s float64) { b.scale = s }

// Capacity returns the fixed seat count.
func (b *Bus) Capacity() int { return len(b.seats) }

// Assigned returns how many seats have been handed out.
func (b *Bus) Assigned() int { return len(b.seats) - len(b.free) }

// Full reports whether every seat is assigned.
func (b *Bus) Full() bool { return len(b.free) == 0 }

// Seats returns the seats in order.
func (b *Bus) Seats() []*Seat { return b.seats }

// SeatOf returns the seat assigned to c, or nil.
func (b *Bus) SeatOf(c *Customer) *Seat {
	return b.assigned[c.ID()]
}

// Departing reports whether the bus is full and waiting to leave or leaving.
func (b *Bus) Departing() bool { return b.departing }

// Departed reports whether the bus has left.
func (b *Bus) Departed() bool { return b.departed }

// SeatPosition returns where seat i sits relative to the bus.
func (b *Bus) SeatPosition(i int) Vec {
	offset := float64(len(b.seats)-1) / 2
	return b.pos.Add(Vec{X: (float64(i) - offset) * 0.3, Y: -0.2})
}

func (b *Bus) bind(coord Coordinator) {
	b.coord = coord
}

// AssignCustomer gives c the next free seat and starts its walk to the bus.
// Filling the last seat asks the coordinator to advance the queue at once;
// the bus itself departs after every boarding walk has settled.
func (b *Bus) AssignCustomer(c *Customer) (*Seat, error) {
	if len(b.free) == 0 {
		if b.coord != nil {
			b.coord.Logger().Warn("bus is full", "bus", b.id, "color", b.Color, "customer", c.ID())
		}
		return nil, fmt.Errorf("bus %d: %w", b.id, ErrNoSeatsAvailable)
	}
	if b.coord == nil {
		return nil, fmt.Errorf("bus %d: not bound to a level", b.id)
	}

	seat := b.free[0]
	b.free = b.free[1:]
	seat.customer = c
	b.assigned[c.ID()] = seat

	c.holder = HolderSeat
	c.state = StateToBus
	c.bus = b
	c.seat = seat

	timing := b.coord.Timing()
	travel := b.coord.Animator().MoveTo(c, b.pos, timing.TravelTicks)
	b.travels = append(b.travels, travel)
	travel.Then(func() { b.customerEntered(c) })

	if len(b.free) == 0 {
		b.departing = true
		b.coord.OnBusFilled(b)
		b.depart()
	}
	return seat, nil
}

// customerEntered resolves the seat for a customer whose walk completed and
// plays the seat scale-in before finalizing it.
func (b *Bus) customerEntered(c *Customer) {
	seat := b.SeatOf(c)
	if seat == nil || c.removed || b.removed {
		return
	}
	c.SetPosition(b.SeatPosition(seat.Index))
	b.coord.Animator().ScaleIn(c, b.coord.Timing().SpawnTicks).Then(func() {
		if c.removed {
			return
		}
		c.state = StateSeated
		b.coord.OnCustomerSeated(b, c)
	})
}

func (b *Bus) depart() {
	travels := b.travels
	b.travels = nil
	WhenAll(travels...).Then(func() {
		if b.removed {
			return
		}
		offscreen := b.pos.Add(Vec{X: 12})
		b.coord.Animator().MoveTo(b, offscreen, b.coord.Timing().DepartTicks).Then(func() {
			if b.removed {
				return
			}
			b.departed = true
			b.coord.OnBusDeparted(b)
		})
	})
}
