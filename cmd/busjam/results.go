package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/busjam/internal/platform/tui"
	"github.com/vovakirdan/busjam/internal/storage"
)

var (
	flagResultsLimit int
	flagResultsTUI   bool
	flagResultsClear bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [level-id]",
	Short: "Show recorded runs",
	Long: `Display recent runs and per-level statistics from the results database.

Examples:
  busjam results
  busjam results 02-rush-hour --limit 20
  busjam results --tui
  busjam results 02-rush-hour --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of runs to show")
	resultsCmd.Flags().BoolVar(&flagResultsTUI, "tui", false, "Browse results interactively")
	resultsCmd.Flags().BoolVar(&flagResultsClear, "clear", false, "Delete the recorded runs of the given level")
}

func runResults(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	levelID := ""
	if len(args) == 1 {
		levelID = args[0]
	}

	if flagResultsClear {
		if levelID == "" {
			return fmt.Errorf("--clear needs a level id")
		}
		if err := store.ClearResults(levelID); err != nil {
			return err
		}
		fmt.Printf("Cleared results for %s\n", levelID)
		return nil
	}

	if flagResultsTUI {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		closeStore(cat.Store)
		cat.Store = store

		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunResults(cat, width, height)
	}

	return printResults(store, levelID)
}

func printResults(store *storage.Store, levelID string) error {
	results, err := store.RecentResults(levelID, flagResultsLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'busjam play' or run 'busjam simulate --save' to record some.")
		return nil
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		outcome := "cleared"
		if !r.Won {
			outcome = "lost: " + r.Reason
		}
		rows[i] = []string{
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.LevelID,
			outcome,
			fmt.Sprintf("%d", r.Moves),
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%d", r.Seed),
			r.Mode,
		}
	}
	printTable(os.Stdout, []string{"Date", "Level", "Outcome", "Moves", "Ticks", "Seed", "Mode"}, rows)

	if levelID == "" {
		return nil
	}
	stats, err := store.GetLevelStats(levelID)
	if err != nil {
		return err
	}
	fmt.Printf("\n%d runs, %d won (%.0f%%)", stats.Runs, stats.Wins, stats.WinRate()*100)
	if best, err := store.BestResult(levelID); err == nil && best != nil {
		fmt.Printf(", best %d moves (seed %d)", best.Moves, best.Seed)
	}
	fmt.Println()
	return nil
}
