// busjam is a terminal bus-jam puzzle: send queued customers to the bus of
// their color before the waiting stands run out.
//
// Usage:
//
//	busjam play              - Pick a level and play
//	busjam simulate          - Let the autoplayer run every level
//	busjam levels            - List or validate level files
//	busjam results           - Show recorded runs
//	busjam serve             - Start an SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Simulation tick rate (default: 30)
//	--seed <value>        - RNG seed for reproducible layouts
//	--db <path>           - Results database (default: ~/.busjam/results.db)
//	--config <path>       - Custom BusJam config YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--levels <dir>        - Extra level files, overriding builtin levels by id
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/busjam/internal/config"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
	"github.com/vovakirdan/busjam/internal/platform/tui"
	"github.com/vovakirdan/busjam/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagLogLevel   string
	flagTheme      string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "busjam",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "busjam",
	Short: "BusJam - a bus jam puzzle in your terminal",
	Long: `BusJam is a terminal puzzle: customers wait on a grid, buses arrive one
color at a time, and every customer you send off either boards the bus of
their color or takes one of a few waiting stands. Run out of stands and the
level is lost.

Available commands:
  play      - Level picker and game
  simulate  - Autoplayer runs over the level set
  levels    - List or validate level files
  results   - Show recorded runs
  serve     - Start SSH server for remote play

Examples:
  busjam play
  busjam play --level 03-side-gate --difficulty hard
  busjam simulate --runs 20
  busjam levels validate ./my-levels
  busjam serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 30, "Tick rate (simulation steps per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.busjam/results.db", "Path to results database (empty to disable)")
	pf.StringVar(&flagConfig, "config", "", "Path to custom BusJam config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLevelsDir, "levels", "", "Directory of extra level files")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&flagTheme, "theme", "", "Color theme: default, pastel, mono")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config and applies the difficulty preset.
func loadConfig() (config.BusJamConfig, error) {
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return config.BusJamConfig{}, fmt.Errorf("unknown difficulty %q (use easy, normal, hard or fixed)", flagDifficulty)
	}
	cfg, err := config.LoadBusJam(flagConfig)
	if err != nil {
		return cfg, err
	}
	config.ApplyBusJamPreset(&cfg, preset)
	return cfg, nil
}

// openStore opens the results database. A failure only disables recording.
func openStore() *storage.Store {
	if flagDBPath == "" {
		return nil
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("results will not be saved", "err", err)
		return nil
	}
	return store
}

// loadCatalog gathers levels, config and storage for a session.
// The caller closes the store when it is not nil.
func loadCatalog() (tui.Catalog, error) {
	cfg, err := loadConfig()
	if err != nil {
		return tui.Catalog{}, err
	}
	set, err := levels.LoadSet(flagLevelsDir)
	if err != nil {
		return tui.Catalog{}, fmt.Errorf("loading levels: %w", err)
	}
	theme, err := tui.ThemeByName(flagTheme)
	if err != nil {
		return tui.Catalog{}, err
	}
	tui.SetTheme(theme)

	return tui.Catalog{
		Levels: set,
		Config: cfg,
		Store:  openStore(),
		Logger: logger,
	}, nil
}

func closeStore(store *storage.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Warn("closing results database", "err", err)
	}
}
