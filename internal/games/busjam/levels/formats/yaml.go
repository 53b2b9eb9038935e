// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"github.com/vovakirdan/busjam/internal/games/busjam/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Grid        YAMLGrid   `yaml:"grid"`
	Blocked     []YAMLCell `yaml:"blocked,omitempty"`
	Stands      int        `yaml:"stands"`
	StandTarget int        `yaml:"stand_target,omitempty"`
	Gates       int        `yaml:"gates,omitempty"`
	Buses       int        `yaml:"buses,omitempty"`
	Seats       int        `yaml:"seats,omitempty"`
	BusColors   []string   `yaml:"bus_colors,omitempty"`
	Palette     []string   `yaml:"palette,omitempty"`
	Customers   []string   `yaml:"customers,omitempty"`
	Rules       YAMLRules  `yaml:"rules,omitempty"`

	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLGrid represents grid dimensions.
type YAMLGrid struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// YAMLCell is a grid coordinate.
type YAMLCell struct {
	Col int `yaml:"col"`
	Row int `yaml:"row"`
}

// YAMLRules holds optional rule switches.
type YAMLRules struct {
	RequireGatesEmpty bool `yaml:"require_gates_empty"`
	DeadlockIsLoss    bool `yaml:"deadlock_is_loss"`
}

// Level represents a parsed level ready for use.
type Level struct {
	Config   core.LevelConfig
	Metadata map[string]string
}

// ParseYAML parses and validates a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, core.ValidationError{Code: "MISSING_ID", Message: "level has no id"}
	}

	cfg := core.LevelConfig{
		ID:          yl.ID,
		Name:        yl.Name,
		GridColumns: yl.Grid.Columns,
		GridRows:    yl.Grid.Rows,
		StandCount:  yl.Stands,
		StandTarget: yl.StandTarget,
		GateCount:   yl.Gates,
		BusCount:    yl.Buses,
		SeatsPerBus: yl.Seats,

		RequireGatesEmpty: yl.Rules.RequireGatesEmpty,
		DeadlockIsLoss:    yl.Rules.DeadlockIsLoss,
	}
	if cfg.Name == "" {
		cfg.Name = cfg.ID
	}
	for _, b := range yl.Blocked {
		cfg.Blocked = append(cfg.Blocked, core.Coord{Col: b.Col, Row: b.Row})
	}

	var err error
	if cfg.BusColors, err = parseColorList(yl.BusColors); err != nil {
		return Level{}, fmt.Errorf("bus_colors: %w", err)
	}
	if cfg.Palette, err = parseColorList(yl.Palette); err != nil {
		return Level{}, fmt.Errorf("palette: %w", err)
	}
	if cfg.CustomerColors, err = parseColorList(yl.Customers); err != nil {
		return Level{}, fmt.Errorf("customers: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Level{}, err
	}
	return Level{Config: cfg, Metadata: yl.Metadata}, nil
}

// MarshalYAML renders a level config back into the file format.
func MarshalYAML(cfg core.LevelConfig) ([]byte, error) {
	yl := YAMLLevel{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Grid:        YAMLGrid{Columns: cfg.GridColumns, Rows: cfg.GridRows},
		Stands:      cfg.StandCount,
		StandTarget: cfg.StandTarget,
		Gates:       cfg.GateCount,
		Buses:       cfg.BusCount,
		Seats:       cfg.SeatsPerBus,
		BusColors:   colorNames(cfg.BusColors),
		Palette:     colorNames(cfg.Palette),
		Customers:   colorNames(cfg.CustomerColors),
		Rules: YAMLRules{
			RequireGatesEmpty: cfg.RequireGatesEmpty,
			DeadlockIsLoss:    cfg.DeadlockIsLoss,
		},
	}
	for _, b := range cfg.Blocked {
		yl.Blocked = append(yl.Blocked, YAMLCell{Col: b.Col, Row: b.Row})
	}
	return yaml.Marshal(yl)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

func parseColorList(names []string) ([]core.Color, error) {
	if len(names) == 0 {
		return nil, nil
	}
	return core.ParseColors(names)
}

func colorNames(colors []core.Color) []string {
	if len(colors) == 0 {
		return nil
	}
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.String()
	}
	return out
}
