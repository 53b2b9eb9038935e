package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/busjam/internal/games/busjam/core"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	cfg := DefaultBusJamConfig()
	var embedded BusJamConfig
	if err := yaml.Unmarshal(DefaultYAML(), &embedded); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if embedded.Timing != cfg.Timing {
		t.Errorf("timing mismatch: %+v vs %+v", embedded.Timing, cfg.Timing)
	}
	if embedded.Layout != cfg.Layout {
		t.Errorf("layout mismatch: %+v vs %+v", embedded.Layout, cfg.Layout)
	}
	if embedded.Rules.SeatsPerBus != cfg.Rules.SeatsPerBus || embedded.Rules.DeadlockIsLoss != cfg.Rules.DeadlockIsLoss {
		t.Errorf("rules mismatch: %+v vs %+v", embedded.Rules, cfg.Rules)
	}
	if embedded.Difficulty != cfg.Difficulty {
		t.Errorf("difficulty mismatch: %+v vs %+v", embedded.Difficulty, cfg.Difficulty)
	}
}

func TestLoadBusJamCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "busjam.yaml")
	data := "timing:\n  travel_ticks: 4\nrules:\n  palette: [red, blue]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBusJam(path)
	if err != nil {
		t.Fatalf("LoadBusJam: %v", err)
	}
	if cfg.Timing.TravelTicks != 4 {
		t.Errorf("expected travel 4, got %d", cfg.Timing.TravelTicks)
	}
	if cfg.Timing.SpawnTicks != 6 {
		t.Errorf("missing fields should keep defaults, got spawn %d", cfg.Timing.SpawnTicks)
	}
	if cfg.Layout.GridSpacing != 1.1 {
		t.Errorf("expected default spacing, got %v", cfg.Layout.GridSpacing)
	}
}

func TestLoadBusJamCustomPathErrors(t *testing.T) {
	if _, err := LoadBusJam(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  palette: [teal]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBusJam(path); err == nil {
		t.Error("expected error for unknown palette color")
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		ok   bool
	}{
		{"", DifficultyNormal, true},
		{"easy", DifficultyEasy, true},
		{"hard", DifficultyHard, true},
		{"fixed", DifficultyFixed, true},
		{"insane", DifficultyNormal, false},
	}
	for _, tt := range tests {
		got, ok := ParsePreset(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParsePreset(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestApplyBusJamPreset(t *testing.T) {
	cfg := DefaultBusJamConfig()
	ApplyBusJamPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultBusJamConfig()
	ApplyBusJamPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset: %+v", cfg.Difficulty)
	}
	if cfg.Rules.ExtraStands != -1 || !cfg.Rules.RequireGatesEmpty {
		t.Errorf("hard preset rules: %+v", cfg.Rules)
	}

	cfg = DefaultBusJamConfig()
	ApplyBusJamPreset(&cfg, DifficultyEasy)
	if cfg.Rules.ExtraStands != 1 || cfg.Rules.DeadlockIsLoss {
		t.Errorf("easy preset rules: %+v", cfg.Rules)
	}
}

func TestApplyRules(t *testing.T) {
	cfg := DefaultBusJamConfig()
	cfg.Rules.Palette = []string{"green"}
	cfg.Rules.ExtraStands = 1

	lvl := cfg.ApplyRules(core.LevelConfig{ID: "x", GridColumns: 3, GridRows: 1, StandCount: 2})
	if lvl.SeatsPerBus != 3 {
		t.Errorf("expected seats 3, got %d", lvl.SeatsPerBus)
	}
	if len(lvl.Palette) != 1 || lvl.Palette[0] != core.ColorGreen {
		t.Errorf("expected green palette, got %v", lvl.Palette)
	}
	if lvl.StandCount != 3 {
		t.Errorf("expected 3 stands, got %d", lvl.StandCount)
	}
	if !lvl.DeadlockIsLoss {
		t.Error("deadlock rule should carry over")
	}

	kept := cfg.ApplyRules(core.LevelConfig{SeatsPerBus: 2, Palette: []core.Color{core.ColorRed}})
	if kept.SeatsPerBus != 2 || kept.Palette[0] != core.ColorRed {
		t.Errorf("level values should win: %+v", kept)
	}
}

func TestAdjustStands(t *testing.T) {
	tests := []struct{ stands, delta, want int }{
		{0, 0, 0},
		{0, -1, 0},
		{0, 1, 1},
		{3, -1, 2},
		{1, -1, 1},
		{2, 2, 4},
	}
	for _, tt := range tests {
		if got := adjustStands(tt.stands, tt.delta); got != tt.want {
			t.Errorf("adjustStands(%d, %d) = %d, want %d", tt.stands, tt.delta, got, tt.want)
		}
	}
}

func TestOptionsCarryTimingAndLayout(t *testing.T) {
	cfg := DefaultBusJamConfig()
	cfg.Layout.BusSpacing = 3
	opts := cfg.Options(42, nil)
	if opts.Seed != 42 {
		t.Errorf("expected seed 42, got %d", opts.Seed)
	}
	if opts.Timing.TravelTicks != 12 || opts.Timing.Arrival != 0.05 {
		t.Errorf("unexpected timing %+v", opts.Timing)
	}
	if opts.Layout.BusSpacing != 3 || opts.Layout.GridAnchor != core.DefaultLayout().GridAnchor {
		t.Errorf("unexpected layout %+v", opts.Layout)
	}
}
