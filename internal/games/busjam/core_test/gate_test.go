package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/busjam/internal/games/busjam/core"
)

func TestLevelGatesReleaseOntoGrid(t *testing.T) {
	cfg := core.LevelConfig{
		ID:             "gates",
		GridColumns:    4,
		GridRows:       2,
		StandCount:     3,
		GateCount:      1,
		BusColors:      []core.Color{core.ColorRed},
		CustomerColors: []core.Color{core.ColorRed, core.ColorRed, core.ColorRed},
	}
	l := newRunningLevel(t, cfg, 9)
	require.Len(t, l.Gates(), 1)

	g := l.Gates()[0]
	assert.Nil(t, l.CustomerAt(g.Cell.Col, g.Cell.Row), "customers never start on a gate cell")
	assert.Equal(t, g, g.Cell.Gate())
	require.NoError(t, l.CheckMembership())

	queued := g.Len()
	require.Positive(t, queued)
	assert.Equal(t, 3-queued, l.Registry().Len())

	out := core.NewAutoPlayer(l).Play(500)
	assert.True(t, out.Won)
	assert.Equal(t, queued, g.Released())
	assert.Equal(t, queued, l.Stats().GateReleases)
	assert.True(t, g.Empty())
}

func TestGateCannotReleaseOntoOccupiedCell(t *testing.T) {
	cfg := core.LevelConfig{
		ID:             "gate-occupied",
		GridColumns:    3,
		GridRows:       1,
		GateCount:      1,
		BusColors:      []core.Color{core.ColorRed},
		CustomerColors: []core.Color{core.ColorRed, core.ColorRed, core.ColorRed},
	}
	l := newRunningLevel(t, cfg, 4)
	g := l.Gates()[0]
	require.False(t, g.Empty())

	if occupant := l.CustomerAt(g.Release.Col, g.Release.Row); occupant != nil {
		assert.False(t, g.CanRelease(l.Oracle()))
		return
	}
	assert.True(t, g.CanRelease(l.Oracle()))
	l.Tick()
	assert.NotNil(t, l.CustomerAt(g.Release.Col, g.Release.Row))
	if !g.Empty() {
		assert.False(t, g.CanRelease(l.Oracle()))
	}
}
