package core

// AutoPlayer picks moves for a level: a reachable customer matching the
// current bus first, otherwise any reachable customer while a stand is free.
type AutoPlayer struct {
	level *Level
}

// NewAutoPlayer creates an autoplayer for l.
func NewAutoPlayer(l *Level) *AutoPlayer {
	return &AutoPlayer{level: l}
}

// Next returns the customer the autoplayer would select, or nil when no
// move is useful right now.
func (a *AutoPlayer) Next() *Customer {
	l := a.level
	if l.registry.Flush() {
		l.gatesDirty = true
	}
	available := l.registry.Available()
	if len(available) == 0 {
		return nil
	}

	if bus := l.queue.Current(); bus != nil && !bus.Full() {
		for _, c := range available {
			if c.Color == bus.Color {
				return c
			}
		}
	}
	if l.stands.FreeCount() == 0 {
		return nil
	}
	// Prefer the color of the nearest upcoming bus so stands clear sooner.
	for _, b := range l.queue.Buses() {
		for _, c := range available {
			if c.Color == b.Color {
				return c
			}
		}
	}
	return available[0]
}

// Play runs the level until it completes or maxTicks elapse, making at most
// one selection per tick. Returns the outcome, zero if the level did not finish.
func (a *AutoPlayer) Play(maxTicks int) Outcome {
	l := a.level
	for i := 0; i < maxTicks && !l.Completed(); i++ {
		if c := a.Next(); c != nil {
			if err := l.SelectCustomer(c.ID()); err != nil {
				l.logger.Debug("autoplayer move rejected", "customer", c.ID(), "err", err)
			}
		}
		l.Tick()
	}
	return l.Outcome()
}
