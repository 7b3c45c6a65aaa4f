package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
)

var (
	flagRows  int
	flagCols  int
	flagForce bool
)

var newCmd = &cobra.Command{
	Use:   "new [file]",
	Short: "Write a fresh board file",
	Long: `Write an empty board holding only the source and the sink.

The layout comes from the config (5x5, source top-left emitting right,
sink bottom-right). --rows and --cols resize the board; the sink moves to
the new bottom-right corner.

Examples:
  pipes new
  pipes new puzzle.json --rows 7 --cols 7`,
	Args: cobra.MaximumNArgs(1),
	Run:  runNew,
}

func init() {
	newCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows (default from config)")
	newCmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns (default from config)")
	newCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Overwrite an existing file")
}

func runNew(_ *cobra.Command, args []string) {
	cfg, logger := setup()

	path := cfg.Storage.ExportFile
	if len(args) == 1 {
		path = args[0]
	}

	board := cfg.Board
	if flagRows > 0 || flagCols > 0 {
		if flagRows > 0 {
			board.Rows = flagRows
		}
		if flagCols > 0 {
			board.Cols = flagCols
		}
		board.Sink.Row = board.Rows - 1
		board.Sink.Col = board.Cols - 1
	}
	cfg.Board = board
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(path); err == nil && !flagForce {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		os.Exit(1)
	}

	if err := savefile.WriteFile(path, board.NewBoard()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("board written", "path", path, "rows", board.Rows, "cols", board.Cols)
}
