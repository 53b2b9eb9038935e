package levels_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/busjam/internal/games/busjam/core"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
)

func writeLevel(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestBuiltinLevelsLoadSorted(t *testing.T) {
	lvls, err := levels.Builtin().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(lvls) != 5 {
		t.Fatalf("expected 5 builtin levels, got %d", len(lvls))
	}
	for i := 1; i < len(lvls); i++ {
		if lvls[i-1].ID >= lvls[i].ID {
			t.Errorf("levels not sorted: %s >= %s", lvls[i-1].ID, lvls[i].ID)
		}
	}
}

func TestBuiltinLevelsInitialize(t *testing.T) {
	lvls, err := levels.Builtin().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	for _, lvl := range lvls {
		for seed := int64(1); seed <= 3; seed++ {
			opts := core.DefaultOptions()
			opts.Seed = seed
			l := lvl.NewLevel(opts)
			if err := l.Initialize(); err != nil {
				t.Errorf("%s seed %d: %v", lvl.ID, seed, err)
				continue
			}
			if l.Phase() != core.PhaseRunning {
				t.Errorf("%s: expected running, got %s", lvl.ID, l.Phase())
			}
			if err := l.CheckMembership(); err != nil {
				t.Errorf("%s: %v", lvl.ID, err)
			}
		}
	}
}

func TestBuiltinFirstRide(t *testing.T) {
	lvl, err := levels.Builtin().LoadByID("01-first-ride")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if lvl.Name != "First Ride" {
		t.Errorf("expected name 'First Ride', got %q", lvl.Name)
	}
	if lvl.GridColumns != 3 || lvl.GridRows != 2 {
		t.Errorf("expected 3x2, got %dx%d", lvl.GridColumns, lvl.GridRows)
	}
	if lvl.Buses() != 2 {
		t.Errorf("expected 2 buses, got %d", lvl.Buses())
	}
	if lvl.Metadata["difficulty"] != "tutorial" {
		t.Errorf("expected tutorial metadata, got %v", lvl.Metadata)
	}
	if lvl.FilePath != "builtin/01-first-ride.yaml" {
		t.Errorf("unexpected path %q", lvl.FilePath)
	}
}

func TestLoaderSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "good.yaml", "id: good\ngrid: {columns: 2, rows: 3}\nstands: 1\n")
	writeLevel(t, dir, "bad-color.yaml", "id: bad\ngrid: {columns: 2, rows: 3}\nbus_colors: [teal]\n")
	writeLevel(t, dir, "too-big.yml", "id: big\ngrid: {columns: 11, rows: 3}\n")
	writeLevel(t, dir, "notes.txt", "not a level")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeLevel(t, filepath.Join(dir, "nested"), "deep.yml", "id: deep\ngrid: {columns: 3, rows: 1}\n")

	ids, err := levels.NewLoader(dir).ListIDs()
	if err != nil {
		t.Fatalf("ListIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "deep" || ids[1] != "good" {
		t.Errorf("expected [deep good], got %v", ids)
	}
}

func TestLoaderCheckReportsProblems(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "a.yaml", "id: same\ngrid: {columns: 3, rows: 1}\n")
	writeLevel(t, dir, "b.yaml", "id: same\ngrid: {columns: 3, rows: 2}\n")
	writeLevel(t, dir, "c.yaml", "id: broken\ngrid: {columns: 3, rows: 1}\npalette: [teal]\n")

	lvls, problems, err := levels.NewLoader(dir).Check()
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(lvls) != 1 || lvls[0].GridRows != 1 {
		t.Fatalf("expected only the first 'same' level, got %+v", lvls)
	}
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", problems)
	}
	if problems[0].Path != filepath.Join(dir, "b.yaml") || !strings.Contains(problems[0].Error(), "duplicate level id") {
		t.Errorf("unexpected duplicate report: %v", problems[0])
	}
	if problems[1].Path != filepath.Join(dir, "c.yaml") {
		t.Errorf("unexpected invalid file report: %v", problems[1])
	}
}

func TestLoaderLoadByIDMissing(t *testing.T) {
	if _, err := levels.NewLoader(t.TempDir()).LoadByID("nope"); err == nil {
		t.Error("expected error for missing level")
	}
}

func TestLoadSetOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "override.yaml", "id: 01-first-ride\nname: Custom\ngrid: {columns: 3, rows: 1}\n")
	writeLevel(t, dir, "extra.yaml", "id: 99-extra\ngrid: {columns: 3, rows: 1}\n")

	lvls, err := levels.LoadSet(dir)
	if err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}
	if len(lvls) != 6 {
		t.Fatalf("expected 6 levels, got %d", len(lvls))
	}
	if lvls[0].Name != "Custom" {
		t.Errorf("expected override, got %q", lvls[0].Name)
	}
	if lvls[5].ID != "99-extra" {
		t.Errorf("expected extra level last, got %s", lvls[5].ID)
	}

	plain, err := levels.LoadSet("")
	if err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}
	if len(plain) != 5 {
		t.Errorf("expected builtin set only, got %d", len(plain))
	}
}
