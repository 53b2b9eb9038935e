package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/busjam/internal/games/busjam/core"
)

// fastOptions returns options with short animations and a fixed seed.
func fastOptions(seed int64) core.Options {
	return core.Options{
		Seed: seed,
		Timing: core.Timing{
			TravelTicks:  3,
			SpawnTicks:   2,
			BusMoveTicks: 2,
			DepartTicks:  2,
			Arrival:      0.01,
		},
		Layout: core.DefaultLayout(),
	}
}

// newRunningLevel builds and initializes a level, failing the test on error.
func newRunningLevel(t *testing.T, cfg core.LevelConfig, seed int64) *core.Level {
	t.Helper()
	l := core.NewLevel(cfg, fastOptions(seed))
	require.NoError(t, l.Initialize())
	require.Equal(t, core.PhaseRunning, l.Phase())
	return l
}

// runTicks ticks the level n times or until it completes.
func runTicks(l *core.Level, n int) {
	for i := 0; i < n && !l.Completed(); i++ {
		l.Tick()
	}
}

// settle ticks until no work is in flight, bounded by n ticks.
func settle(l *core.Level, n int) {
	for i := 0; i < n && !l.Completed(); i++ {
		l.Tick()
		if l.Scheduler().Pending() == 0 && !l.Registry().Pending() {
			return
		}
	}
}

// customersOf returns the level's customers of one color in creation order.
func customersOf(l *core.Level, color core.Color) []*core.Customer {
	var out []*core.Customer
	for _, c := range l.Customers() {
		if c.Color == color {
			out = append(out, c)
		}
	}
	return out
}
