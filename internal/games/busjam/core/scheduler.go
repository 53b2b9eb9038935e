package core

// Signal is the completion handle of a suspended operation. A signal settles
// exactly once, either done or cancelled.
type Signal struct {
	done      bool
	cancelled bool
	callbacks []signalCallback
}

type signalCallback struct {
	fn       func()
	onCancel bool
}

// Completed returns a signal that is already done.
func Completed() *Signal {
	return &Signal{done: true}
}

// Done reports whether the operation finished normally.
func (s *Signal) Done() bool { return s.done }

// Cancelled reports whether the operation was cancelled before finishing.
func (s *Signal) Cancelled() bool { return s.cancelled }

// Settled reports whether the signal is done or cancelled.
func (s *Signal) Settled() bool { return s.done || s.cancelled }

// Then runs fn once the operation is done. Cancelled operations never run fn.
// If the signal is already done, fn runs immediately.
func (s *Signal) Then(fn func()) *Signal {
	if s.done {
		fn()
		return s
	}
	if s.cancelled {
		return s
	}
	s.callbacks = append(s.callbacks, signalCallback{fn: fn})
	return s
}

// Finally runs fn once the signal settles, done or cancelled.
func (s *Signal) Finally(fn func()) *Signal {
	if s.Settled() {
		fn()
		return s
	}
	s.callbacks = append(s.callbacks, signalCallback{fn: fn, onCancel: true})
	return s
}

func (s *Signal) complete() {
	if s.Settled() {
		return
	}
	s.done = true
	s.fire(false)
}

func (s *Signal) cancel() {
	if s.Settled() {
		return
	}
	s.cancelled = true
	s.fire(true)
}

func (s *Signal) fire(cancelled bool) {
	cbs := s.callbacks
	s.callbacks = nil
	for _, cb := range cbs {
		if cancelled && !cb.onCancel {
			continue
		}
		cb.fn()
	}
}

// WhenAll returns a signal that is done once every input has settled.
// Cancelled inputs count as settled so a join never hangs on removed entities.
func WhenAll(signals ...*Signal) *Signal {
	out := &Signal{}
	remaining := len(signals)
	if remaining == 0 {
		out.complete()
		return out
	}
	for _, sig := range signals {
		sig.Finally(func() {
			remaining--
			if remaining == 0 {
				out.complete()
			}
		})
	}
	return out
}

type task struct {
	owner EntityID
	sig   *Signal
	poll  func() bool
}

// Scheduler runs suspended operations cooperatively on the caller's
// goroutine. Each Step polls every pending task once; a task whose poll
// returns true completes its signal. Tasks started during a Step are first
// polled on the next Step.
type Scheduler struct {
	tick  uint64
	tasks []*task
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Go registers a task owned by owner and returns its signal.
func (s *Scheduler) Go(owner EntityID, poll func() bool) *Signal {
	t := &task{owner: owner, sig: &Signal{}, poll: poll}
	s.tasks = append(s.tasks, t)
	return t.sig
}

// Step advances the scheduler by one tick.
func (s *Scheduler) Step() {
	s.tick++
	batch := append([]*task(nil), s.tasks...)
	for _, t := range batch {
		if t.sig.Settled() {
			continue
		}
		if t.poll() {
			t.sig.complete()
		}
	}
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.sig.Settled() {
			live = append(live, t)
		}
	}
	s.tasks = live
}

// CancelOwner cancels every pending task owned by owner and returns how many
// were cancelled. Cancelled signals run their Finally callbacks only.
func (s *Scheduler) CancelOwner(owner EntityID) int {
	n := 0
	for _, t := range s.tasks {
		if t.owner == owner && !t.sig.Settled() {
			t.sig.cancel()
			n++
		}
	}
	return n
}

// CancelAll cancels every pending task.
func (s *Scheduler) CancelAll() {
	tasks := s.tasks
	s.tasks = nil
	for _, t := range tasks {
		t.sig.cancel()
	}
}

// Pending returns the number of unsettled tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.sig.Settled() {
			n++
		}
	}
	return n
}

// PendingFor returns the number of unsettled tasks owned by owner.
func (s *Scheduler) PendingFor(owner EntityID) int {
	n := 0
	for _, t := range s.tasks {
		if t.owner == owner && !t.sig.Settled() {
			n++
		}
	}
	return n
}

// Tick returns the number of completed steps.
func (s *Scheduler) Tick() uint64 {
	return s.tick
}
