package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/busjam/internal/config"
	"github.com/vovakirdan/busjam/internal/games/busjam"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
	"github.com/vovakirdan/busjam/internal/storage"
)

// Catalog is everything a session needs to start games: the level set,
// the rules and where finished runs are recorded.
type Catalog struct {
	Levels []levels.Level
	Config config.BusJamConfig
	Store  *storage.Store // optional
	Logger *log.Logger
}

func (c Catalog) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard)
	}
	return c.Logger
}

// NewGame creates a game starting at the given level index.
// Finished levels are saved to the store when one is configured.
func (c Catalog) NewGame(startLevel int) *busjam.Game {
	return busjam.New(busjam.Settings{
		Levels:     c.Levels,
		Config:     c.Config,
		StartLevel: startLevel,
		Logger:     c.logger(),
		OnResult:   c.saveResult,
	})
}

func (c Catalog) saveResult(r busjam.RunResult) {
	if c.Store == nil {
		return
	}
	saved, err := c.Store.SaveResult(ResultRecord(r, "play"))
	if err != nil {
		c.logger().Warn("could not save result", "level", r.LevelID, "err", err)
		return
	}
	c.logger().Debug("result saved", "run", saved.RunID, "level", r.LevelID, "won", r.Outcome.Won)
}

// ResultRecord converts a finished run into a storage row.
func ResultRecord(r busjam.RunResult, mode string) storage.Result {
	return storage.Result{
		LevelID: r.LevelID,
		Seed:    r.Seed,
		Won:     r.Outcome.Won,
		Reason:  r.Outcome.Reason,
		Moves:   r.Stats.Moves,
		Ticks:   r.Stats.Ticks,
		Seated:  r.Stats.Seated,
		Mode:    mode,
	}
}

// LevelNames returns the display names of the catalog levels.
func (c Catalog) LevelNames() []string {
	names := make([]string, len(c.Levels))
	for i, lvl := range c.Levels {
		names[i] = lvl.Name
	}
	return names
}
