package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/busjam/internal/games/busjam/core"
)

// LoadBusJam loads BusJam configuration.
// Search order: customPath -> ~/.busjam/configs/busjam.yaml -> ./configs/busjam.yaml -> embedded default
// Fields missing from a file keep their default values.
func LoadBusJam(customPath string) (BusJamConfig, error) {
	cfg := DefaultBusJamConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("busjam.yaml"); userCfgPath != "" {
		if loaded, ok := tryLoad(userCfgPath); ok {
			return loaded, nil
		}
	}

	// Try local configs directory
	if loaded, ok := tryLoad(filepath.Join("configs", "busjam.yaml")); ok {
		return loaded, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultBusJamYAML, &cfg); err != nil {
		return DefaultBusJamConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are ignored.
func tryLoad(path string) (BusJamConfig, bool) {
	cfg := DefaultBusJamConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if cfg.Validate() != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".busjam", "configs", filename)
}

// Validate rejects settings the core cannot run with.
func (c BusJamConfig) Validate() error {
	if c.Layout.GridSpacing <= 0 || c.Layout.StandSpacing <= 0 || c.Layout.BusSpacing <= 0 {
		return fmt.Errorf("config: layout spacings must be positive")
	}
	if c.Timing.TravelTicks < 0 || c.Timing.SpawnTicks < 0 || c.Timing.BusMoveTicks < 0 || c.Timing.DepartTicks < 0 {
		return fmt.Errorf("config: timing ticks must not be negative")
	}
	if c.Rules.SeatsPerBus < 0 {
		return fmt.Errorf("config: seats_per_bus must not be negative")
	}
	if _, err := core.ParseColors(c.Rules.Palette); err != nil {
		return fmt.Errorf("config: palette: %w", err)
	}
	return nil
}

// ApplyBusJamPreset modifies the config based on a difficulty preset.
func ApplyBusJamPreset(cfg *BusJamConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	// Adjust rules based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Rules.ExtraStands = 1
		cfg.Rules.DeadlockIsLoss = false
	case DifficultyHard:
		cfg.Rules.ExtraStands = -1
		cfg.Rules.DeadlockIsLoss = true
		cfg.Rules.RequireGatesEmpty = true
	}
}

// Options builds core options for one level run.
func (c BusJamConfig) Options(seed int64, logger *log.Logger) core.Options {
	layout := core.DefaultLayout()
	layout.GridSpacing = c.Layout.GridSpacing
	layout.StandSpacing = c.Layout.StandSpacing
	layout.BusSpacing = c.Layout.BusSpacing

	return core.Options{
		Seed:   seed,
		Logger: logger,
		Layout: layout,
		Timing: core.Timing{
			TravelTicks:  c.Timing.TravelTicks,
			SpawnTicks:   c.Timing.SpawnTicks,
			BusMoveTicks: c.Timing.BusMoveTicks,
			DepartTicks:  c.Timing.DepartTicks,
			Arrival:      c.Timing.Arrival,
		},
	}
}

// ApplyRules fills level settings the level file left unset and adds the
// configured stand adjustment. Stands never drop below one.
func (c BusJamConfig) ApplyRules(lvl core.LevelConfig) core.LevelConfig {
	if lvl.SeatsPerBus == 0 && c.Rules.SeatsPerBus > 0 {
		lvl.SeatsPerBus = c.Rules.SeatsPerBus
	}
	if len(lvl.Palette) == 0 && len(c.Rules.Palette) > 0 {
		if palette, err := core.ParseColors(c.Rules.Palette); err == nil {
			lvl.Palette = palette
		}
	}
	lvl.RequireGatesEmpty = lvl.RequireGatesEmpty || c.Rules.RequireGatesEmpty
	lvl.DeadlockIsLoss = lvl.DeadlockIsLoss || c.Rules.DeadlockIsLoss
	lvl.StandCount = adjustStands(lvl.StandCount, c.Rules.ExtraStands)
	return lvl
}

func adjustStands(stands, delta int) int {
	if stands == 0 && delta <= 0 {
		return 0
	}
	stands += delta
	if stands < 1 {
		stands = 1
	}
	return stands
}
