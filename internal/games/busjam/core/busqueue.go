package core

import "fmt"

// Subscription is a handle to a front-arrived listener.
type Subscription struct {
	fn     func(front *Bus)
	active bool
}

// Cancel stops future deliveries, including later ones in a dispatch that is
// already running.
func (s *Subscription) Cancel() {
	if s != nil {
		s.active = false
	}
}

// Active reports whether the subscription still receives notifications.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// BusQueue is the line of buses waiting at the boarding point. The front bus
// is the one customers board.
type BusQueue struct {
	anchor  Vec
	spacing float64
	coord   Coordinator

	buses []*Bus
	subs  []*Subscription
	depth int // nested dispatch depth

	advances int
	emptied  int
}

// NewBusQueue creates an empty queue. The front slot is at anchor; follower
// slot i is spacing*i to the left.
func NewBusQueue(anchor Vec, spacing float64, coord Coordinator) *BusQueue {
	return &BusQueue{anchor: anchor, spacing: spacing, coord: coord}
}

// SlotPosition returns the position of queue slot i.
func (q *BusQueue) SlotPosition(i int) Vec {
	return Vec{X: q.anchor.X - q.spacing*float64(i), Y: q.anchor.Y}
}

// Enqueue appends b and places it in its slot immediately.
func (q *BusQueue) Enqueue(b *Bus) {
	b.bind(q.coord)
	b.SetPosition(q.SlotPosition(len(q.buses)))
	q.buses = append(q.buses, b)
}

// Current returns the front bus, or nil when the queue is empty.
func (q *BusQueue) Current() *Bus {
	if len(q.buses) == 0 {
		return nil
	}
	return q.buses[0]
}

// Buses returns the queued buses, front first.
func (q *BusQueue) Buses() []*Bus {
	return q.buses
}

// Len returns the number of queued buses.
func (q *BusQueue) Len() int {
	return len(q.buses)
}

// Advances returns how many times a new front has arrived.
func (q *BusQueue) Advances() int {
	return q.advances
}

// Emptied returns how many times the queue has run empty.
func (q *BusQueue) Emptied() int {
	return q.emptied
}

// Remove takes b out of the queue. Removing the front moves every bus up one
// slot and notifies subscribers that a new front arrived; removing the last
// bus reports an empty queue instead.
func (q *BusQueue) Remove(b *Bus) error {
	idx := -1
	for i, queued := range q.buses {
		if queued == b {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("bus %d: not queued", b.ID())
	}
	q.buses = append(q.buses[:idx], q.buses[idx+1:]...)

	if len(q.buses) == 0 {
		q.emptied++
		q.coord.OnQueueEmpty()
		return nil
	}

	timing := q.coord.Timing()
	for i, queued := range q.buses {
		q.coord.Animator().MoveTo(queued, q.SlotPosition(i), timing.BusMoveTicks)
	}
	if idx == 0 {
		q.advances++
		q.notify()
	}
	return nil
}

// RemoveFront removes the current bus.
func (q *BusQueue) RemoveFront() error {
	front := q.Current()
	if front == nil {
		return ErrEmptyQueue
	}
	return q.Remove(front)
}

// Subscribe registers fn to run whenever a new bus reaches the front.
func (q *BusQueue) Subscribe(fn func(front *Bus)) *Subscription {
	s := &Subscription{fn: fn, active: true}
	q.subs = append(q.subs, s)
	return s
}

// Subscribers returns the number of active subscriptions.
func (q *BusQueue) Subscribers() int {
	n := 0
	for _, s := range q.subs {
		if s.active {
			n++
		}
	}
	return n
}

// notify delivers to a snapshot of subscribers. Each one sees the front as
// it is when its turn comes, so a nested advance during dispatch is
// delivered depth-first and later listeners observe the newer front.
func (q *BusQueue) notify() {
	q.depth++
	snapshot := append([]*Subscription(nil), q.subs...)
	for _, s := range snapshot {
		if !s.active {
			continue
		}
		s.fn(q.Current())
	}
	q.depth--
	if q.depth == 0 {
		q.prune()
	}
}

func (q *BusQueue) prune() {
	live := q.subs[:0]
	for _, s := range q.subs {
		if s.active {
			live = append(live, s)
		}
	}
	for i := len(live); i < len(q.subs); i++ {
		q.subs[i] = nil
	}
	q.subs = live
}

// Clear drops every bus and subscription.
func (q *BusQueue) Clear() {
	for _, s := range q.subs {
		s.active = false
	}
	q.subs = nil
	q.buses = nil
	q.advances = 0
	q.emptied = 0
}
