package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/busjam/internal/games/busjam"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
	"github.com/vovakirdan/busjam/internal/platform/tui"
)

var (
	flagSimRuns     int
	flagSimMaxTicks int
	flagSimLevel    string
	flagSimSave     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the autoplayer over the level set",
	Long: `Play every level with the built-in autoplayer and print a summary.
Each run uses its own seed, starting at --seed and counting up, so a run
can be replayed exactly with the same flags.

Examples:
  busjam simulate
  busjam simulate --runs 50 --seed 7
  busjam simulate --level 05-gridlock --difficulty hard --save`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimRuns, "runs", 10, "Runs per level")
	simulateCmd.Flags().IntVar(&flagSimMaxTicks, "max-ticks", busjam.DefaultMaxTicks, "Tick limit per run")
	simulateCmd.Flags().StringVar(&flagSimLevel, "level", "", "Only simulate this level id")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the runs in the results database")
}

func runSimulate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	set, err := levels.LoadSet(flagLevelsDir)
	if err != nil {
		return fmt.Errorf("loading levels: %w", err)
	}
	if flagSimLevel != "" {
		set = filterLevels(set, flagSimLevel)
		if len(set) == 0 {
			return fmt.Errorf("unknown level %q", flagSimLevel)
		}
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("simulating", "levels", len(set), "runs", flagSimRuns, "seed", seed)

	results, err := busjam.Simulate(set, cfg, busjam.SimOptions{
		Runs:     flagSimRuns,
		Seed:     seed,
		MaxTicks: flagSimMaxTicks,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	if flagSimSave {
		saveSimulated(results)
	}
	printSummary(busjam.Summarize(results))
	return nil
}

func filterLevels(set []levels.Level, id string) []levels.Level {
	for _, lvl := range set {
		if lvl.ID == id {
			return []levels.Level{lvl}
		}
	}
	return nil
}

func saveSimulated(results []busjam.RunResult) {
	store := openStore()
	if store == nil {
		return
	}
	defer closeStore(store)

	for _, r := range results {
		if _, err := store.SaveResult(tui.ResultRecord(r, "simulate")); err != nil {
			logger.Warn("could not save result", "level", r.LevelID, "err", err)
			return
		}
	}
	logger.Info("results saved", "count", len(results))
}

func printSummary(sums []busjam.Summary) {
	rows := make([][]string, len(sums))
	for i, s := range sums {
		rows[i] = []string{
			s.LevelID,
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%d", s.Wins),
			fmt.Sprintf("%.1f", s.AvgMoves),
			fmt.Sprintf("%.0f", s.AvgTicks),
			formatReasons(s.Reasons),
		}
	}
	printTable(os.Stdout, []string{"Level", "Runs", "Won", "Avg moves", "Avg ticks", "Outcomes"}, rows)
}

func formatReasons(reasons map[string]int) string {
	keys := make([]string, 0, len(reasons))
	for k := range reasons {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, reasons[k])
	}
	return strings.Join(parts, " ")
}
