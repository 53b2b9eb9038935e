package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAssignsRunID(t *testing.T) {
	store := openTestStore(t)

	saved, err := store.SaveResult(Result{LevelID: "01", Seed: 7, Won: true, Reason: "cleared", Moves: 6})
	if err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected an inserted ID")
	}
	if _, err := uuid.Parse(saved.RunID); err != nil {
		t.Errorf("expected a UUID run id, got %q", saved.RunID)
	}
	if saved.Mode != "play" {
		t.Errorf("expected default mode play, got %q", saved.Mode)
	}

	if _, err := store.SaveResult(Result{RunID: saved.RunID, LevelID: "01"}); err == nil {
		t.Error("duplicate run id should be rejected")
	}
}

func TestStoreRecentResults(t *testing.T) {
	store := openTestStore(t)

	for i, lvl := range []string{"01", "02", "01", "01"} {
		if _, err := store.SaveResult(Result{LevelID: lvl, Moves: i + 1, Mode: "simulate"}); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	recent, err := store.RecentResults("01", 2)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 results, got %d", len(recent))
	}
	if recent[0].Moves != 4 || recent[1].Moves != 3 {
		t.Errorf("expected newest first, got moves %d, %d", recent[0].Moves, recent[1].Moves)
	}
	if recent[0].Mode != "simulate" {
		t.Errorf("expected mode simulate, got %q", recent[0].Mode)
	}

	all, err := store.RecentResults("", 0)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 results across levels, got %d", len(all))
	}
}

func TestStoreBestResult(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestResult("01")
	if err != nil {
		t.Fatalf("BestResult() failed: %v", err)
	}
	if best != nil {
		t.Fatalf("expected no best result, got %+v", best)
	}

	results := []Result{
		{LevelID: "01", Won: false, Reason: "stands_unmet", Moves: 2},
		{LevelID: "01", Won: true, Reason: "cleared", Moves: 9, Ticks: 100},
		{LevelID: "01", Won: true, Reason: "cleared", Moves: 6, Ticks: 80},
		{LevelID: "02", Won: true, Reason: "cleared", Moves: 1},
	}
	for _, r := range results {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	best, err = store.BestResult("01")
	if err != nil {
		t.Fatalf("BestResult() failed: %v", err)
	}
	if best == nil || best.Moves != 6 || !best.Won {
		t.Errorf("expected best win with 6 moves, got %+v", best)
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetLevelStats("01")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Runs != 0 || stats.WinRate() != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	for _, r := range []Result{
		{LevelID: "01", Won: true, Moves: 6},
		{LevelID: "01", Won: false, Moves: 2},
		{LevelID: "01", Won: true, Moves: 10},
		{LevelID: "02", Won: false, Moves: 4},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	stats, err = store.GetLevelStats("01")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Runs != 3 || stats.Wins != 2 || stats.BestMoves != 6 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.AvgMoves != 6 {
		t.Errorf("expected avg 6, got %v", stats.AvgMoves)
	}

	all, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(all))
	}
	if all["02"].Wins != 0 || all["02"].BestMoves != 0 {
		t.Errorf("level without wins has no best moves: %+v", all["02"])
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult(Result{LevelID: "01"})
	store.SaveResult(Result{LevelID: "02"})

	if err := store.ClearResults("01"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	left, err := store.RecentResults("", 10)
	if err != nil {
		t.Fatalf("RecentResults() failed: %v", err)
	}
	if len(left) != 1 || left[0].LevelID != "02" {
		t.Errorf("expected only level 02 left, got %+v", left)
	}
}

func TestStoreExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/busjam/results.db")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(home, "busjam", "results.db")); err != nil {
		t.Errorf("expected db under home: %v", err)
	}
}
