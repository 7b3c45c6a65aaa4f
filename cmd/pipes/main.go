// pipes is a terminal puzzle: lay pipe pieces so water flows from the source to the sink.
//
// Usage:
//
//	pipes play [file]            - Edit and run a board interactively
//	pipes check [file|glob|dir]  - Load boards and report where the water goes
//	pipes new [file]             - Write a fresh board document
//	pipes saves <command>        - Manage saved boards
//
// Global flags:
//
//	--config <path>     - Config file (.yaml or .toml)
//	--db <path>         - Database path (default from config: ~/.pipes/pipes.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pipes",
	Short: "Pipes - connect the water source to the sink",
	Long: `Pipes is a terminal puzzle. Place pipe pieces on the board so that
water leaving the source reaches the sink, then run the water to check.

Boards are saved to named slots in a local database and to JSON files
that can be shared and checked from the command line.

Available commands:
  play     - Edit and run a board
  check    - Report the outcome of board files
  new      - Write a fresh board file
  saves    - List, show, import, export and delete saved boards

Examples:
  pipes play
  pipes play gamePlay.json
  pipes play --slot puzzle1
  pipes check 'levels/**/*.json'
  pipes saves list`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to saves database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(savesCmd)
}

// setup loads the configuration and builds the logger shared by all commands.
func setup() (config.PipesConfig, *log.Logger) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pipes",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	return cfg, logger
}

// openStore opens the saves database or exits.
func openStore(cfg config.PipesConfig, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening saves database: %v\n", err)
		os.Exit(1)
	}
	store.SetLogger(logger)
	return store
}

// loadSlot reads and decodes a named slot.
func loadSlot(store *storage.Store, cfg config.PipesConfig, name string) (*core.Grid, error) {
	body, _, err := store.Get(name)
	if err != nil {
		return nil, err
	}
	g, err := savefile.LoadWithOptions(string(body), cfg.DecoderOptions())
	if err != nil {
		return nil, fmt.Errorf("slot %s: %w", name, err)
	}
	return g, nil
}
