package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

// defaultSlot is used when neither --slot nor a file names the board.
const defaultSlot = "default"

var (
	flagSlot     string
	flagExport   string
	flagNoExport bool
)

var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Edit and run a board",
	Long: `Open a board in the terminal. With a file argument the board is loaded
from that JSON document; with --slot it is loaded from the saves database;
otherwise a fresh board from the config is used (or the "default" slot, if saved).

Controls:
  Arrows/hjkl  - Move the cursor
  1-6/Tab      - Pick a piece
  Enter/Space  - Place the piece
  X            - Clear the cell
  O            - Turn the source (cursor on the source)
  B            - Move the source to the cursor
  E            - Move the sink to the cursor
  R            - Run the water
  S            - Save to the slot and the export file
  ?            - More keys
  Q/Ctrl+C     - Quit

Examples:
  pipes play
  pipes play gamePlay.json
  pipes play --slot puzzle1
  pipes play --no-export`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSlot, "slot", "", "Save slot to load and save (default: file name or \"default\")")
	playCmd.Flags().StringVar(&flagExport, "export", "", "File written on save (default from config: gamePlay.json)")
	playCmd.Flags().BoolVar(&flagNoExport, "no-export", false, "Do not write an export file on save")
}

func runPlay(_ *cobra.Command, args []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal; use 'pipes check' for files")
		os.Exit(1)
	}

	cfg, logger := setup()

	// The board owns the screen; log to a file next to the database instead
	logPath := filepath.Join(filepath.Dir(config.ExpandHome(cfg.Storage.DBPath)), "pipes.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			defer f.Close()
			logger.SetOutput(f)
		}
	}

	if theme, ok := tui.ThemeByName(cfg.UI.Theme); ok {
		tui.SetTheme(theme)
	} else {
		logger.Warn("unknown theme, using default", "theme", cfg.UI.Theme)
	}

	// Open saves storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open saves database: %v\n", err)
		// Continue without storage - the export file still works
		store = nil
	} else {
		store.SetLogger(logger)
	}

	slot := flagSlot
	var grid *core.Grid

	switch {
	case len(args) == 1:
		path := args[0]
		grid, err = savefile.NewLoader(filepath.Dir(path)).LoadFile(path)
		if err != nil {
			closeStore(store)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if slot == "" {
			slot = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	default:
		if slot == "" {
			slot = defaultSlot
		}
		if store != nil {
			grid, err = loadSlot(store, cfg, slot)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				closeStore(store)
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
		if grid == nil {
			if flagSlot != "" {
				logger.Info("slot is empty, starting a fresh board", "slot", slot)
			}
			grid = cfg.Board.NewBoard()
		}
	}

	export := cfg.Storage.ExportFile
	if flagExport != "" {
		export = flagExport
	}
	if flagNoExport {
		export = ""
	}

	opts := tui.Options{
		Grid:       grid,
		Store:      store,
		Slot:       slot,
		ExportPath: export,
		FlowRate:   cfg.UI.FlowRate,
		Logger:     logger,
	}
	if store == nil {
		opts.Slot = ""
	}

	_, runErr := tui.Run(opts)

	// Close store before potential exit
	closeStore(store)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running board: %v\n", runErr)
		os.Exit(1)
	}
}

func closeStore(store *storage.Store) {
	if store != nil {
		store.Close()
	}
}
