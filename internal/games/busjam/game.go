// Package busjam provides the BusJam puzzle game for the terminal platform.
package busjam

import (
	"errors"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/busjam/internal/config"
	platformcore "github.com/vovakirdan/busjam/internal/core"
	"github.com/vovakirdan/busjam/internal/games/busjam/core"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
)

// RunResult describes a finished level attempt.
type RunResult struct {
	LevelID string
	Seed    int64
	Outcome core.Outcome
	Stats   core.Stats
}

// Settings configures a Game.
type Settings struct {
	Levels     []levels.Level
	Config     config.BusJamConfig
	StartLevel int // 0-based index into Levels
	Logger     *log.Logger

	// OnResult is called once for every level that ends in a win or a loss.
	OnResult func(RunResult)
}

// Game implements the BusJam puzzle game.
type Game struct {
	settings   Settings
	difficulty *config.DifficultyManager
	rng        *rand.Rand

	levelIndex int
	cleared    int
	seed       int64
	level      *core.Level
	loadErr    error

	// Screen dimensions
	screenW int
	screenH int

	paused   bool
	finished bool // every level cleared
	tooSmall bool

	cursor      core.Coord
	status      string
	statusColor platformcore.Color
}

// New creates a new BusJam game.
func New(settings Settings) *Game {
	if settings.Logger == nil {
		settings.Logger = log.New(io.Discard)
	}
	return &Game{
		settings:   settings,
		difficulty: config.NewDifficultyManager(settings.Config.Difficulty),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return "busjam"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "BusJam"
}

// Reset initializes or restarts the game from the start level.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.finished = false
	g.cleared = 0

	g.levelIndex = 0
	if s := g.settings.StartLevel; s > 0 && s < len(g.settings.Levels) {
		g.levelIndex = s
	}
	g.loadCurrentLevel()
}

// Resize updates the screen dimensions without touching the level.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.calculateLayout()
}

// loadCurrentLevel builds the level at levelIndex with a fresh seed.
func (g *Game) loadCurrentLevel() {
	if g.level != nil {
		g.level.Teardown()
	}
	g.level = nil
	g.loadErr = nil

	if g.levelIndex >= len(g.settings.Levels) {
		g.finished = true
		return
	}
	g.seed = g.rng.Int63()

	def := g.settings.Levels[g.levelIndex]
	cfg := g.settings.Config
	lvl := cfg.ApplyRules(def.LevelConfig)
	opts := cfg.Options(g.seed, g.settings.Logger)
	lvl, opts = g.difficulty.Apply(lvl, opts, g.cleared)

	level := core.NewLevel(lvl, opts)
	level.OnGameWin(g.report)
	level.OnGameOver(g.report)
	if err := level.Initialize(); err != nil {
		g.loadErr = err
		g.settings.Logger.Error("cannot start level", "level", def.ID, "err", err)
		return
	}
	g.level = level
	g.cursor = core.Coord{}
	g.setStatus("Pick a customer with a clear path to the exit", platformcore.ColorGray)
	g.calculateLayout()
}

func (g *Game) report(o core.Outcome) {
	if g.settings.OnResult == nil || g.level == nil {
		return
	}
	g.settings.OnResult(RunResult{
		LevelID: g.level.Config().ID,
		Seed:    g.seed,
		Outcome: o,
		Stats:   g.level.Stats(),
	})
}

// restartLevel rebuilds the current level with the same seed.
func (g *Game) restartLevel() {
	if g.level == nil {
		return
	}
	if err := g.level.ClearScene(); err != nil {
		g.loadErr = err
		g.level = nil
		return
	}
	g.cursor = core.Coord{}
	g.setStatus("Level restarted", platformcore.ColorGray)
}

// nextLevel moves on, counting the current level as cleared if it was won.
func (g *Game) nextLevel() {
	if g.level != nil && g.level.Outcome().Won {
		g.cleared++
	}
	g.levelIndex++
	g.loadCurrentLevel()
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	if input.Has(platformcore.ActionPause) && !g.finished {
		g.paused = !g.paused
	}
	if g.paused || g.finished {
		return platformcore.StepResult{State: g.State()}
	}

	if input.Has(platformcore.ActionNext) {
		g.nextLevel()
		return platformcore.StepResult{State: g.State()}
	}
	if input.Has(platformcore.ActionRestart) {
		g.restartLevel()
		return platformcore.StepResult{State: g.State()}
	}
	if g.level == nil {
		return platformcore.StepResult{State: g.State()}
	}

	if g.level.Completed() {
		if input.Has(platformcore.ActionConfirm) {
			if g.level.Outcome().Won {
				g.nextLevel()
			} else {
				g.restartLevel()
			}
		}
		return platformcore.StepResult{State: g.State()}
	}

	g.moveCursor(input)
	if input.Has(platformcore.ActionHint) {
		g.showHint()
	}
	if input.Has(platformcore.ActionConfirm) {
		g.selectAtCursor()
	}

	g.level.Tick()
	g.consumeEvents()

	return platformcore.StepResult{State: g.State()}
}

func (g *Game) moveCursor(input platformcore.InputFrame) {
	cfg := g.level.Config()
	if input.Has(platformcore.ActionUp) {
		g.cursor.Row--
	}
	if input.Has(platformcore.ActionDown) {
		g.cursor.Row++
	}
	if input.Has(platformcore.ActionLeft) {
		g.cursor.Col--
	}
	if input.Has(platformcore.ActionRight) {
		g.cursor.Col++
	}
	g.cursor.Col = platformcore.Clamp(g.cursor.Col, 0, cfg.GridColumns-1)
	g.cursor.Row = platformcore.Clamp(g.cursor.Row, 0, cfg.GridRows-1)
}

func (g *Game) showHint() {
	c := core.NewAutoPlayer(g.level).Next()
	if c == nil || c.Cell() == nil {
		g.setStatus("No useful move right now", platformcore.ColorGray)
		return
	}
	g.cursor = c.Cell().Coord()
	g.setStatus("Try this "+c.Color.String()+" customer", platformcore.ColorCyan)
}

func (g *Game) selectAtCursor() {
	c := g.level.CustomerAt(g.cursor.Col, g.cursor.Row)
	if c == nil {
		g.setStatus("Nobody is standing there", platformcore.ColorGray)
		return
	}

	err := g.level.SelectCustomer(c.ID())
	switch {
	case err == nil:
	case errors.Is(err, core.ErrNoStandAvailable):
		g.setStatus("Every stand is taken", platformcore.ColorBrightRed)
	case errors.Is(err, core.ErrCustomerUnavailable):
		g.setStatus("That customer has no way out", platformcore.ColorYellow)
	default:
		g.setStatus(err.Error(), platformcore.ColorBrightRed)
	}
}

// consumeEvents turns level events into the status line.
func (g *Game) consumeEvents() {
	for _, e := range g.level.DrainEvents() {
		name := e.Color.String()
		switch e.Kind {
		case core.EventCustomerBoarding:
			g.setStatus("A "+name+" customer heads for the bus", colorFor(e.Color))
		case core.EventCustomerToStand:
			g.setStatus("A "+name+" customer waits on a stand", colorFor(e.Color))
		case core.EventBusArrived:
			g.setStatus("A "+name+" bus pulls in", colorFor(e.Color))
		case core.EventBusDeparted:
			g.setStatus("The "+name+" bus leaves full", colorFor(e.Color))
		case core.EventGateReleased:
			g.setStatus("A gate lets a "+name+" customer in", colorFor(e.Color))
		case core.EventStalled:
			g.setStatus("No move can help now. Press R to restart", platformcore.ColorYellow)
		case core.EventGameWin:
			g.setStatus("Level cleared!", platformcore.ColorBrightGreen)
		case core.EventGameOver:
			g.setStatus("Level lost: "+e.Reason, platformcore.ColorBrightRed)
		}
	}
}

func (g *Game) setStatus(text string, c platformcore.Color) {
	g.status = text
	g.statusColor = c
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		Paused:   g.paused,
		GameOver: g.finished,
		Won:      g.finished,
	}
	if g.level != nil {
		st.Score = g.level.Stats().Seated
		if g.level.Completed() {
			st.GameOver = true
			st.Won = g.level.Outcome().Won
		}
	}
	return st
}

// Level returns the running level, or nil.
func (g *Game) Level() *core.Level {
	return g.level
}

// LevelIndex returns the 0-based index of the current level.
func (g *Game) LevelIndex() int {
	return g.levelIndex
}

// LevelCount returns the number of levels in the set.
func (g *Game) LevelCount() int {
	return len(g.settings.Levels)
}

// LevelNames returns the display names of all levels.
func (g *Game) LevelNames() []string {
	names := make([]string, len(g.settings.Levels))
	for i, lvl := range g.settings.Levels {
		names[i] = lvl.Name
	}
	return names
}

// Cursor returns the grid cell under the cursor.
func (g *Game) Cursor() core.Coord {
	return g.cursor
}

// Status returns the status line text.
func (g *Game) Status() string {
	return g.status
}
