package busjam

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/busjam/internal/config"
	"github.com/vovakirdan/busjam/internal/games/busjam/core"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
)

// SimOptions controls a batch of unattended runs.
type SimOptions struct {
	Runs     int   // runs per level, at least one
	Seed     int64 // seed of the first run; run i uses Seed+i
	MaxTicks int   // tick limit per run
	Logger   *log.Logger
}

// DefaultMaxTicks bounds a simulated run that never settles.
const DefaultMaxTicks = 20000

// Simulate plays every level with the autoplayer and returns one result per
// run, in level order. Runs that hit the tick limit report an empty reason.
func Simulate(set []levels.Level, cfg config.BusJamConfig, opts SimOptions) ([]RunResult, error) {
	if opts.Runs < 1 {
		opts.Runs = 1
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = DefaultMaxTicks
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	difficulty := config.NewDifficultyManager(cfg.Difficulty)

	var results []RunResult
	for _, def := range set {
		for i := 0; i < opts.Runs; i++ {
			seed := opts.Seed + int64(i)
			lvl, levelOpts := difficulty.Apply(cfg.ApplyRules(def.LevelConfig), cfg.Options(seed, logger), 0)

			level := core.NewLevel(lvl, levelOpts)
			if err := level.Initialize(); err != nil {
				return results, err
			}
			outcome := core.NewAutoPlayer(level).Play(opts.MaxTicks)
			results = append(results, RunResult{
				LevelID: def.ID,
				Seed:    seed,
				Outcome: outcome,
				Stats:   level.Stats(),
			})
			logger.Debug("simulated run", "level", def.ID, "seed", seed, "won", outcome.Won, "reason", outcome.Reason)
			level.Teardown()
		}
	}
	return results, nil
}

// Summary aggregates simulated runs for one level.
type Summary struct {
	LevelID  string
	Runs     int
	Wins     int
	Reasons  map[string]int
	AvgMoves float64
	AvgTicks float64
}

// Summarize groups results by level, keeping the order levels first appear in.
func Summarize(results []RunResult) []Summary {
	var out []Summary
	index := make(map[string]int)
	for _, r := range results {
		i, ok := index[r.LevelID]
		if !ok {
			i = len(out)
			index[r.LevelID] = i
			out = append(out, Summary{LevelID: r.LevelID, Reasons: make(map[string]int)})
		}
		s := &out[i]
		s.Runs++
		if r.Outcome.Won {
			s.Wins++
		}
		reason := r.Outcome.Reason
		if reason == "" {
			reason = "timeout"
		}
		s.Reasons[reason]++
		s.AvgMoves += float64(r.Stats.Moves)
		s.AvgTicks += float64(r.Stats.Ticks)
	}
	for i := range out {
		out[i].AvgMoves /= float64(out[i].Runs)
		out[i].AvgTicks /= float64(out[i].Runs)
	}
	return out
}
