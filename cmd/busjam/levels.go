package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/busjam/internal/games/busjam/levels"
	"github.com/vovakirdan/busjam/internal/games/busjam/levels/formats"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the level set",
	Long: `Show every level that 'busjam play' would offer: the builtin levels plus
any from --levels, which replace builtin levels with the same id.

Examples:
  busjam levels
  busjam levels --levels ./my-levels
  busjam levels validate ./my-levels
  busjam levels show 03-side-gate`,
	Args: cobra.NoArgs,
	RunE: runLevelsList,
}

var levelsValidateCmd = &cobra.Command{
	Use:   "validate <dir|file>...",
	Short: "Check level files and report every problem",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLevelsValidate,
}

var levelsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a level in the level file format",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevelsShow,
}

func init() {
	levelsCmd.AddCommand(levelsValidateCmd)
	levelsCmd.AddCommand(levelsShowCmd)
}

func runLevelsList(_ *cobra.Command, _ []string) error {
	set, err := levels.LoadSet(flagLevelsDir)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	rows := make([][]string, len(set))
	for i, lvl := range set {
		rows[i] = []string{
			lvl.ID,
			lvl.Name,
			fmt.Sprintf("%dx%d", lvl.GridColumns, lvl.GridRows),
			fmt.Sprintf("%d", lvl.StandCount),
			fmt.Sprintf("%d", lvl.GateCount),
			lvl.Metadata["difficulty"],
			lvl.FilePath,
		}
	}
	printTable(os.Stdout, []string{"ID", "Name", "Grid", "Stands", "Gates", "Difficulty", "Source"}, rows)
	fmt.Println()
	fmt.Println("Run 'busjam play --level <id>' to play a level.")
	return nil
}

func runLevelsValidate(_ *cobra.Command, args []string) error {
	var valid, invalid int
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}

		var (
			found    []levels.Level
			problems []levels.FileError
		)
		if info.IsDir() {
			found, problems, err = levels.NewLoader(arg).Check()
			if err != nil {
				return err
			}
		} else {
			lvl, loadErr := levels.NewLoader(filepath.Dir(arg)).LoadFile(filepath.Base(arg))
			if loadErr != nil {
				problems = append(problems, levels.FileError{Path: arg, Err: loadErr})
			} else {
				found = append(found, lvl)
			}
		}

		for _, lvl := range found {
			fmt.Printf("ok       %s (%s)\n", lvl.FilePath, lvl.ID)
		}
		for _, p := range problems {
			fmt.Printf("invalid  %s\n", p.Error())
		}
		valid += len(found)
		invalid += len(problems)
	}

	fmt.Printf("\n%d valid, %d invalid\n", valid, invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid level file(s)", invalid)
	}
	return nil
}

func runLevelsShow(_ *cobra.Command, args []string) error {
	set, err := levels.LoadSet(flagLevelsDir)
	if err != nil {
		return err
	}
	for _, lvl := range set {
		if lvl.ID != args[0] {
			continue
		}
		data, err := formats.MarshalYAML(lvl.LevelConfig)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s", lvl.FilePath, strings.TrimLeft(string(data), "\n"))
		return nil
	}
	return fmt.Errorf("unknown level %q", args[0])
}
