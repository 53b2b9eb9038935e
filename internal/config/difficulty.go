package config

import (
	"math"

	"github.com/vovakirdan/busjam/internal/games/busjam/core"
)

// DifficultyManager tightens levels as the player clears them.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty level (0.0 to 1.0) after cleared levels.
func (d *DifficultyManager) Level(cleared int) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "levels" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(cleared)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Timing shortens animation durations as difficulty rises.
// Durations never drop below one tick unless they started at zero.
func (d *DifficultyManager) Timing(base core.Timing, cleared int) core.Timing {
	speed := 1.0 + d.Level(cleared)*d.cfg.Scaling.SpeedMultiplier
	scale := func(ticks int) int {
		if ticks <= 0 {
			return ticks
		}
		return max(1, int(math.Round(float64(ticks)/speed)))
	}
	base.TravelTicks = scale(base.TravelTicks)
	base.SpawnTicks = scale(base.SpawnTicks)
	base.BusMoveTicks = scale(base.BusMoveTicks)
	base.DepartTicks = scale(base.DepartTicks)
	return base
}

// Stands removes stands as difficulty rises, keeping at least one.
func (d *DifficultyManager) Stands(base int, cleared int) int {
	if base <= 1 {
		return base
	}
	reduction := int(d.Level(cleared) * float64(d.cfg.Scaling.StandReduction))
	return max(1, base-reduction)
}

// Apply returns the level and options adjusted for the cleared count.
func (d *DifficultyManager) Apply(lvl core.LevelConfig, opts core.Options, cleared int) (core.LevelConfig, core.Options) {
	lvl.StandCount = d.Stands(lvl.StandCount, cleared)
	if lvl.StandTarget > lvl.StandCount {
		lvl.StandTarget = lvl.StandCount
	}
	opts.Timing = d.Timing(opts.Timing, cleared)
	return lvl, opts
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
