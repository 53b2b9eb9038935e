package core

import (
	"io"

	"github.com/charmbracelet/log"
)

// Layout holds level-space anchors and spacings.
type Layout struct {
	GridAnchor   Vec
	GridSpacing  float64
	StandAnchor  Vec
	StandSpacing float64
	BusAnchor    Vec
	BusSpacing   float64
}

// DefaultLayout returns the standard arrangement: buses at the top, stands
// below them and the grid below the stands.
func DefaultLayout() Layout {
	return Layout{
		GridAnchor:   Vec{X: 0, Y: 1},
		GridSpacing:  1.1,
		StandAnchor:  Vec{X: 0, Y: -1},
		StandSpacing: 1.2,
		BusAnchor:    Vec{X: 0, Y: -3},
		BusSpacing:   2.5,
	}
}

// Options configures a Level beyond its LevelConfig.
type Options struct {
	Seed   int64
	Logger *log.Logger
	Timing Timing
	Layout Layout

	// NewAnimator builds the animation boundary. Nil selects TweenAnimator.
	NewAnimator func(*Scheduler, Timing) Animator
}

// DefaultOptions returns options with default timing and layout and a
// discarding logger.
func DefaultOptions() Options {
	return Options{
		Timing: DefaultTiming(),
		Layout: DefaultLayout(),
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Timing == (Timing{}) {
		o.Timing = DefaultTiming()
	}
	if o.Layout.GridSpacing <= 0 {
		o.Layout = DefaultLayout()
	}
	if o.NewAnimator == nil {
		o.NewAnimator = func(s *Scheduler, t Timing) Animator {
			return NewTweenAnimator(s, t.Arrival)
		}
	}
	return o
}
