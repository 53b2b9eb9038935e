package config

import (
	_ "embed"
)

//go:embed defaults/busjam.yaml
var defaultBusJamYAML []byte

// DefaultBusJamConfig returns the hard-coded BusJam configuration.
// It mirrors defaults/busjam.yaml and backs it up if the embed fails to parse.
func DefaultBusJamConfig() BusJamConfig {
	return BusJamConfig{
		Layout: LayoutConfig{
			GridSpacing:  1.1,
			StandSpacing: 1.2,
			BusSpacing:   2.5,
		},
		Timing: TimingConfig{
			TravelTicks:  12,
			SpawnTicks:   6,
			BusMoveTicks: 8,
			DepartTicks:  10,
			Arrival:      0.05,
		},
		Rules: RulesConfig{
			SeatsPerBus:    3,
			DeadlockIsLoss: true,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "levels",
				MaxAt: 5,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				StandReduction:  1,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultBusJamYAML
}
