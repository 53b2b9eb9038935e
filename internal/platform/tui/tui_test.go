package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/busjam/internal/config"
	"github.com/vovakirdan/busjam/internal/core"
	busjamcore "github.com/vovakirdan/busjam/internal/games/busjam/core"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
	"github.com/vovakirdan/busjam/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testCatalog(t *testing.T, store *storage.Store) Catalog {
	t.Helper()
	cfg := config.DefaultBusJamConfig()
	cfg.Timing = config.TimingConfig{TravelTicks: 2, SpawnTicks: 1, BusMoveTicks: 1, DepartTicks: 1, Arrival: 0.01}
	return Catalog{
		Levels: []levels.Level{
			{LevelConfig: busjamcore.LevelConfig{
				ID: "a", Name: "Alpha", GridColumns: 3, GridRows: 1, StandCount: 1,
				BusColors: []busjamcore.Color{busjamcore.ColorRed},
			}},
			{LevelConfig: busjamcore.LevelConfig{
				ID: "b", Name: "Bravo", GridColumns: 3, GridRows: 2, StandCount: 2,
				BusColors: []busjamcore.Color{busjamcore.ColorBlue, busjamcore.ColorGreen},
			}},
		},
		Config: cfg,
		Store:  store,
	}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 90, ScreenH: 24, TickRate: 30, Seed: 3}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{runeKey("s"), core.ActionDown, false},
		{runeKey("a"), core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{runeKey(" "), core.ActionConfirm, false},
		{runeKey("h"), core.ActionHint, false},
		{runeKey("n"), core.ActionNext, false},
		{runeKey("r"), core.ActionRestart, false},
		{runeKey("p"), core.ActionPause, false},
		{tea.KeyMsg{Type: tea.KeyEscape}, core.ActionBack, false},
		{runeKey("q"), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey("z"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrameSkipsQuit(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewInputFrame()

	if km.MapKeyToFrame(runeKey("h"), &frame) {
		t.Error("h should not quit")
	}
	if !km.MapKeyToFrame(runeKey("q"), &frame) {
		t.Error("q should quit")
	}
	if !frame.Has(core.ActionHint) || frame.Has(core.ActionQuit) {
		t.Errorf("unexpected frame %v", frame.Actions)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := map[string]struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		"up":     {runeKey("k"), MenuActionUp},
		"down":   {tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		"select": {tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		"tab":    {tea.KeyMsg{Type: tea.KeyTab}, MenuActionResults},
		"back":   {tea.KeyMsg{Type: tea.KeyEscape}, MenuActionBack},
		"quit":   {runeKey("q"), MenuActionQuit},
		"other":  {runeKey("x"), MenuActionNone},
	}
	for name, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("%s: got %v, want %v", name, got, tt.want)
		}
	}
}

func TestModelAppliesInputOnTick(t *testing.T) {
	cat := testCatalog(t, nil)
	game := cat.NewGame(0)
	m := NewModel(game, testRuntime())
	if m.Init() == nil {
		t.Fatal("Init should start the tick loop")
	}

	step := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	step(runeKey("h"))
	step(TickMsg{})
	step(runeKey(" "))
	step(TickMsg{})

	if got := game.Level().Stats().Moves; got != 1 {
		t.Fatalf("Moves = %d, want 1", got)
	}
	if m.State().Score != game.State().Score {
		t.Errorf("model state %+v out of sync with game %+v", m.State(), game.State())
	}
}

func TestModelDropsStaleTicks(t *testing.T) {
	cat := testCatalog(t, nil)
	game := cat.NewGame(0)
	m := NewModel(game, testRuntime())
	m.Init()

	ticks := game.Level().Stats().Ticks
	next, cmd := m.Update(TickMsg{Gen: 7})
	if cmd != nil {
		t.Error("a stale tick should not schedule another")
	}
	_ = next
	if got := game.Level().Stats().Ticks; got != ticks {
		t.Errorf("Ticks = %d, want %d", got, ticks)
	}
}

func TestModelResizeKeepsLevel(t *testing.T) {
	cat := testCatalog(t, nil)
	game := cat.NewGame(0)
	m := NewModel(game, testRuntime())
	m.Init()

	next, _ := m.Update(runeKey(" "))
	next, _ = next.(Model).Update(TickMsg{})
	if game.Level().Stats().Moves != 1 {
		t.Fatalf("setup: expected one move")
	}

	next, _ = next.(Model).Update(tea.WindowSizeMsg{Width: 20, Height: 8})
	if game.Level().Stats().Moves != 1 {
		t.Error("resize must not restart the level")
	}
	if view := next.(Model).View(); !strings.Contains(view, "too small") {
		t.Errorf("expected the too-small overlay, got:\n%s", view)
	}
}

func TestModelBackAndQuit(t *testing.T) {
	cat := testCatalog(t, nil)
	m := NewModel(cat.NewGame(0), testRuntime())
	m.Init()

	next, cmd := m.Update(runeKey("b"))
	if !next.(Model).BackToMenu() || cmd != nil {
		t.Error("b should request the menu without quitting")
	}

	m.standalone = true
	next, cmd = m.Update(runeKey("b"))
	if !next.(Model).BackToMenu() || cmd == nil {
		t.Error("standalone back should quit the program")
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("ctrl+c should quit")
	}
	if next.(Model).View() != "" {
		t.Error("a quitting model renders nothing")
	}
}

func TestCatalogSavesResults(t *testing.T) {
	store := openTestStore(t)
	cat := testCatalog(t, store)
	game := cat.NewGame(0)
	game.Reset(testRuntime())

	hint := core.NewInputFrame()
	hint.Set(core.ActionHint)
	hint.Set(core.ActionConfirm)
	for i := 0; i < 300 && !game.State().GameOver; i++ {
		game.Step(hint)
	}
	if !game.State().Won {
		t.Fatal("expected the first level to be cleared")
	}

	results, err := store.RecentResults("a", 10)
	if err != nil {
		t.Fatalf("RecentResults failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if !r.Won || r.Mode != "play" || r.Moves != 3 || r.RunID == "" {
		t.Errorf("unexpected result %+v", r)
	}
}

func TestLevelMenuNavigation(t *testing.T) {
	m := NewLevelMenuModel(testCatalog(t, nil), 80, 24)

	press := func(msg tea.KeyMsg) {
		next, _ := m.Update(msg)
		m = next.(LevelMenuModel)
	}

	press(tea.KeyMsg{Type: tea.KeyUp})
	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyDown})
	press(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}
	if m.Selected() != nil {
		t.Fatal("nothing selected yet")
	}

	press(tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.Selected()
	if sel == nil || sel.Level != 2 || sel.StartIndex() != 1 {
		t.Fatalf("unexpected selection %+v", sel)
	}
}

func TestLevelMenuShowsRecords(t *testing.T) {
	store := openTestStore(t)
	for _, r := range []storage.Result{
		{LevelID: "a", Won: true, Reason: "cleared", Moves: 3},
		{LevelID: "a", Won: false, Reason: "stands_unmet", Moves: 5},
		{LevelID: "b", Won: false, Reason: "deadlock", Moves: 4},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	view := NewLevelMenuModel(testCatalog(t, store), 100, 24).View()
	for _, want := range []string{"Start from Beginning", "Alpha", "best 3 moves, 1/2 won", "1 tries, not cleared"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view missing %q:\n%s", want, view)
		}
	}
}

func TestLevelMenuWithoutLevels(t *testing.T) {
	m := NewLevelMenuModel(Catalog{}, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(LevelMenuModel)

	if m.Selected() != nil {
		t.Error("an empty menu cannot select")
	}
	if !strings.Contains(m.View(), "No levels found") {
		t.Error("expected the empty message")
	}
}

func TestResultsTabs(t *testing.T) {
	store := openTestStore(t)
	for _, r := range []storage.Result{
		{LevelID: "a", Won: true, Reason: "cleared", Moves: 3},
		{LevelID: "b", Won: false, Reason: "deadlock", Moves: 6},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult failed: %v", err)
		}
	}

	m := NewResultsModel(testCatalog(t, store), 100, 30)
	if len(m.results) != 2 || m.stats != nil {
		t.Fatalf("all-levels tab: %d results, stats %v", len(m.results), m.stats)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(ResultsModel)
	if len(m.results) != 1 || m.results[0].LevelID != "a" {
		t.Fatalf("level tab: unexpected results %+v", m.results)
	}
	if m.stats == nil || m.stats.Runs != 1 || m.stats.BestMoves != 3 {
		t.Fatalf("unexpected stats %+v", m.stats)
	}
	if view := m.View(); !strings.Contains(view, "RESULTS - Alpha") || !strings.Contains(view, "best 3") {
		t.Errorf("unexpected view:\n%s", view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	next, _ = next.(ResultsModel).Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(ResultsModel)
	if m.tab != 2 {
		t.Errorf("tab = %d, want wrap to 2", m.tab)
	}
}

func TestResultsEmpty(t *testing.T) {
	m := NewResultsModel(testCatalog(t, nil), 60, 20)
	if !strings.Contains(m.View(), "No runs recorded yet.") {
		t.Error("expected the empty message")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	if !next.(ResultsModel).IsGoingBack() || cmd != nil {
		t.Error("esc should go back without quitting inside a session")
	}
}

func TestSessionFlow(t *testing.T) {
	var m tea.Model = NewSessionModel(testCatalog(t, nil), testRuntime(), "tester")
	press := func(msg tea.Msg) tea.Cmd {
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		return cmd
	}
	active := func() sessionScreen { return m.(SessionModel).active }

	press(tea.KeyMsg{Type: tea.KeyDown})
	if cmd := press(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatal("starting a game should start the tick loop")
	}
	if active() != screenGame || m.(SessionModel).game.gen != 1 {
		t.Fatalf("expected game screen with generation 1, got %v", active())
	}

	press(runeKey("b"))
	if active() != screenMenu {
		t.Fatalf("expected menu after back, got %v", active())
	}

	press(tea.KeyMsg{Type: tea.KeyTab})
	if active() != screenResults {
		t.Fatalf("expected results screen, got %v", active())
	}
	press(tea.KeyMsg{Type: tea.KeyEscape})
	if active() != screenMenu {
		t.Fatalf("expected menu after results, got %v", active())
	}

	press(tea.KeyMsg{Type: tea.KeyEnter})
	if m.(SessionModel).game.gen != 2 {
		t.Error("each game gets a new tick generation")
	}
	if cmd := press(runeKey("q")); cmd == nil || m.View() != "" {
		t.Error("q should end the session")
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames() {
		th, err := ThemeByName(name)
		if err != nil {
			t.Errorf("ThemeByName(%q): %v", name, err)
		}
		if len(th.Colors) == 0 {
			t.Errorf("theme %q has no colors", name)
		}
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected an error for an unknown theme")
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawTextWithColor(0, 0, "Bus", core.ColorRed)
	s.DrawTextWithColor(3, 0, "Jam", core.ColorBlue)
	s.DrawText(0, 1, "stands")

	out := RenderScreen(s, MonochromeTheme())
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(out, "Bus") || !strings.Contains(out, "Jam") || !strings.Contains(out, "stands") {
		t.Errorf("text lost in render: %q", out)
	}
}
