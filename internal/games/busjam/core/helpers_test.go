package core

import (
	"io"

	"github.com/charmbracelet/log"
)

// fakeCoord is a Coordinator for exercising buses and the queue without a Level.
type fakeCoord struct {
	sched  *Scheduler
	anim   Animator
	timing Timing
	logger *log.Logger
	queue  *BusQueue

	filled   []*Bus
	seated   []*Customer
	departed []*Bus
	emptied  int
}

func newFakeCoord() *fakeCoord {
	sched := NewScheduler()
	return &fakeCoord{
		sched:  sched,
		anim:   NewTweenAnimator(sched, 0.01),
		timing: Timing{TravelTicks: 2, SpawnTicks: 1, BusMoveTicks: 1, DepartTicks: 1, Arrival: 0.01},
		logger: log.New(io.Discard),
	}
}

func (f *fakeCoord) Animator() Animator   { return f.anim }
func (f *fakeCoord) Timing() Timing       { return f.timing }
func (f *fakeCoord) Logger() *log.Logger  { return f.logger }
func (f *fakeCoord) OnQueueEmpty()        { f.emptied++ }
func (f *fakeCoord) OnBusDeparted(b *Bus) { f.departed = append(f.departed, b) }

func (f *fakeCoord) OnBusFilled(b *Bus) {
	f.filled = append(f.filled, b)
	if f.queue != nil {
		_ = f.queue.Remove(b)
	}
}

func (f *fakeCoord) OnCustomerSeated(_ *Bus, c *Customer) {
	f.seated = append(f.seated, c)
}

// run steps the scheduler n times.
func (f *fakeCoord) run(n int) {
	for i := 0; i < n; i++ {
		f.sched.Step()
	}
}
