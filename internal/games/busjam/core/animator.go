package core

// Body is anything the animator can move or scale.
type Body interface {
	ID() EntityID
	Position() Vec
	SetPosition(Vec)
	Scale() float64
	SetScale(float64)
}

// Animator starts suspended movement and scale operations. Implementations
// own the easing; callers only wait on the returned signals.
type Animator interface {
	// MoveTo moves b to target over the given number of ticks.
	MoveTo(b Body, target Vec, ticks int) *Signal
	// ScaleIn grows b from zero to full scale over the given number of ticks.
	ScaleIn(b Body, ticks int) *Signal
}

// TweenAnimator is the default Animator. It interpolates linearly on the
// scheduler and completes a move once the body is within the arrival
// threshold of its target.
type TweenAnimator struct {
	sched   *Scheduler
	arrival float64
}

// NewTweenAnimator creates an animator driven by sched.
func NewTweenAnimator(sched *Scheduler, arrival float64) *TweenAnimator {
	if arrival <= 0 {
		arrival = 0.05
	}
	return &TweenAnimator{sched: sched, arrival: arrival}
}

// MoveTo implements Animator. Zero or negative ticks teleport.
func (a *TweenAnimator) MoveTo(b Body, target Vec, ticks int) *Signal {
	if ticks <= 0 {
		b.SetPosition(target)
		return Completed()
	}
	start := b.Position()
	step := 0
	return a.sched.Go(b.ID(), func() bool {
		step++
		t := float64(step) / float64(ticks)
		if t > 1 {
			t = 1
		}
		pos := start.Lerp(target, t)
		if pos.Dist(target) <= a.arrival {
			b.SetPosition(target)
			return true
		}
		b.SetPosition(pos)
		return false
	})
}

// ScaleIn implements Animator.
func (a *TweenAnimator) ScaleIn(b Body, ticks int) *Signal {
	if ticks <= 0 {
		b.SetScale(1)
		return Completed()
	}
	b.SetScale(0)
	step := 0
	return a.sched.Go(b.ID(), func() bool {
		step++
		if step >= ticks {
			b.SetScale(1)
			return true
		}
		b.SetScale(float64(step) / float64(ticks))
		return false
	})
}
