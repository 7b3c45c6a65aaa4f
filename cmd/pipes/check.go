package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
)

var (
	flagQuiet  bool
	flagStrict bool
)

var checkCmd = &cobra.Command{
	Use:   "check [file|glob|dir]...",
	Short: "Report the outcome of board files",
	Long: `Load each board, run the water and print the outcome with the board.

Arguments may be files, doublestar globs ('levels/**/*.json') or directories,
which are searched for **/*.json. Without arguments the saves directory from
the config is checked.

Load errors are printed verbatim (line and column for malformed JSON, a
[CODE] for documents that do not match the save format).

Exit status is 1 if any file fails to load, or with --strict if any board
does not deliver water to the sink.

Examples:
  pipes check gamePlay.json
  pipes check 'levels/**/*.json'
  pipes check --quiet --strict levels/`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Print only the outcome line per board")
	checkCmd.Flags().BoolVar(&flagStrict, "strict", false, "Fail unless every board delivers water")
}

func runCheck(_ *cobra.Command, args []string) {
	cfg, logger := setup()

	if len(args) == 0 {
		dir := config.ExpandHome(cfg.Storage.SavesDir)
		if _, err := os.Stat(dir); err != nil {
			fmt.Printf("No boards found in %s.\n", dir)
			return
		}
		args = []string{dir}
	}

	entries, err := collectEntries(args, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No boards found.")
		return
	}

	failed, undelivered := 0, 0
	for _, e := range entries {
		if e.Err != nil {
			failed++
			fmt.Printf("%s: error: %v\n", e.Path, e.Err)
			continue
		}

		out := evaluate(e.Grid)
		logger.Debug("checked", "path", e.Path, "outcome", out.String(), "steps", out.Steps)
		if !out.Delivered() {
			undelivered++
		}

		fmt.Printf("%s: %s\n", e.Path, out)
		if !flagQuiet {
			fmt.Print(core.RenderASCII(e.Grid, &out))
			fmt.Println()
		}
	}

	fmt.Printf("%d boards, %d delivered, %d not delivered, %d failed to load\n",
		len(entries), len(entries)-undelivered-failed, undelivered, failed)

	if failed > 0 || (flagStrict && undelivered > 0) {
		os.Exit(1)
	}
}

// collectEntries loads every board named by args. Directories are walked with
// the loader's default pattern; other arguments go through glob expansion.
func collectEntries(args []string, cfg config.PipesConfig) ([]savefile.Entry, error) {
	var entries []savefile.Entry
	var files []string

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			loader := savefile.NewLoader(arg)
			loader.Options = cfg.DecoderOptions()
			found, err := loader.LoadAll()
			if err != nil {
				return nil, err
			}
			entries = append(entries, found...)
			continue
		}
		files = append(files, arg)
	}

	paths, err := savefile.ExpandPaths(files)
	if err != nil {
		return nil, err
	}
	loader := savefile.NewLoader(".")
	loader.Options = cfg.DecoderOptions()
	for _, p := range paths {
		g, err := loader.LoadFile(p)
		entries = append(entries, savefile.Entry{Path: p, Grid: g, Err: err})
	}

	return entries, nil
}

// evaluate runs the flow on g after dropping any invalid markers the saved
// document carried, so the grid shows only this run's verdict.
func evaluate(g *core.Grid) core.Outcome {
	g.ClearInvalidFlags()
	return core.Simulate(g)
}
