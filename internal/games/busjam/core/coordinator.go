package core

import "github.com/charmbracelet/log"

// Coordinator is the level-side surface handed to buses and the bus queue.
// It replaces a process-wide level singleton: components report events here
// and receive the animator, timing and logger they need.
type Coordinator interface {
	Animator() Animator
	Timing() Timing
	Logger() *log.Logger

	// OnBusFilled runs synchronously when the last seat of b is assigned.
	OnBusFilled(b *Bus)
	// OnCustomerSeated runs when c finished boarding b.
	OnCustomerSeated(b *Bus, c *Customer)
	// OnBusDeparted runs once b has left the boarding point.
	OnBusDeparted(b *Bus)
	// OnQueueEmpty runs when the last bus leaves the queue.
	OnQueueEmpty()
}

// Timing holds animation durations in scheduler ticks.
type Timing struct {
	TravelTicks  int     // customer walk to a stand or a bus
	SpawnTicks   int     // scale-in at a seat or gate release cell
	BusMoveTicks int     // bus moving one queue slot
	DepartTicks  int     // bus driving off
	Arrival      float64 // distance at which a move counts as arrived
}

// DefaultTiming returns durations tuned for a 30 fps loop.
func DefaultTiming() Timing {
	return Timing{
		TravelTicks:  12,
		SpawnTicks:   6,
		BusMoveTicks: 8,
		DepartTicks:  10,
		Arrival:      0.05,
	}
}
