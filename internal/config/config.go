// Package config provides YAML-based game configuration loading and
// difficulty management for BusJam.
package config

// BusJamConfig contains all tunable settings that are not part of a level file.
type BusJamConfig struct {
	Layout     LayoutConfig     `yaml:"layout"`
	Timing     TimingConfig     `yaml:"timing"`
	Rules      RulesConfig      `yaml:"rules"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// LayoutConfig defines level-space spacings between grid cells, stands and buses.
type LayoutConfig struct {
	GridSpacing  float64 `yaml:"grid_spacing"`
	StandSpacing float64 `yaml:"stand_spacing"`
	BusSpacing   float64 `yaml:"bus_spacing"`
}

// TimingConfig defines animation durations in ticks.
type TimingConfig struct {
	TravelTicks  int     `yaml:"travel_ticks"`
	SpawnTicks   int     `yaml:"spawn_ticks"`
	BusMoveTicks int     `yaml:"bus_move_ticks"`
	DepartTicks  int     `yaml:"depart_ticks"`
	Arrival      float64 `yaml:"arrival"` // distance at which a move snaps to its target
}

// RulesConfig defines defaults applied to levels that leave them unset.
type RulesConfig struct {
	SeatsPerBus       int      `yaml:"seats_per_bus"`
	ExtraStands       int      `yaml:"extra_stands"` // added to every level's stand count
	RequireGatesEmpty bool     `yaml:"require_gates_empty"`
	DeadlockIsLoss    bool     `yaml:"deadlock_is_loss"`
	Palette           []string `yaml:"palette"`
}

// DifficultyConfig defines how levels tighten as the player clears them.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "levels" or "none"
	MaxAt int    `yaml:"max_at"` // cleared levels at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // animation speed-up at max difficulty
	StandReduction  int     `yaml:"stand_reduction"`  // stands removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name selects normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch DifficultyPreset(s) {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), true
	default:
		return DifficultyNormal, false
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
