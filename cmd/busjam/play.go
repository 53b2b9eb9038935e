package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/busjam/internal/core"
	"github.com/vovakirdan/busjam/internal/platform/tui"
)

var flagPlayLevel string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play BusJam",
	Long: `Open the level picker and play. With --level, start that level directly.

Controls:
  Arrows/WASD  - Move the cursor
  Enter/Space  - Send the customer under the cursor
  H            - Hint: jump to a useful customer
  R            - Restart the level (same layout)
  N            - Skip to the next level
  P            - Pause
  B/Esc        - Back to the level picker
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - One extra stand, deadlocks are not a loss
  normal - Levels as designed, tightening as you clear them
  hard   - One stand less, gates must empty, deadlocks lose
  fixed  - No progression between levels

Examples:
  busjam play
  busjam play --level 02-rush-hour
  busjam play --difficulty easy --theme pastel
  busjam play --levels ./my-levels`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayLevel, "level", "", "Start this level id directly")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	defer closeStore(cat.Store)

	// Log lines would tear through the alternate screen.
	logFile, gameLogger := fileLogger()
	if logFile != nil {
		defer logFile.Close()
	}
	cat.Logger = gameLogger

	cfg := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	cfg.Seed = flagSeed

	if flagPlayLevel == "" {
		return tui.RunSession(cat, cfg)
	}
	for i, lvl := range cat.Levels {
		if lvl.ID == flagPlayLevel {
			return tui.Run(cat.NewGame(i), cfg)
		}
	}
	return fmt.Errorf("unknown level %q, run 'busjam levels' to see the list", flagPlayLevel)
}

// fileLogger returns a logger writing to ~/.busjam/busjam.log at the
// configured level, or a discarding logger when the file cannot be opened.
func fileLogger() (*os.File, *log.Logger) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, log.New(io.Discard)
	}
	dir := filepath.Join(home, ".busjam")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, log.New(io.Discard)
	}
	f, err := os.OpenFile(filepath.Join(dir, "busjam.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, log.New(io.Discard)
	}
	l := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "busjam"})
	l.SetLevel(logger.GetLevel())
	return f, l
}
