package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pipes/internal/config"
	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
	"github.com/vovakirdan/tui-pipes/internal/platform/tui"
	"github.com/vovakirdan/tui-pipes/internal/storage"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage saved boards",
	Long: `Saved boards live in named slots in the saves database.

Examples:
  pipes saves list
  pipes saves show puzzle1
  pipes saves export puzzle1 puzzle1.json
  pipes saves import puzzle1.json puzzle1
  pipes saves delete puzzle1
  pipes saves browse`,
}

var savesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved boards",
	Args:  cobra.NoArgs,
	Run:   runSavesList,
}

var savesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved board and its recent runs",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesShow,
}

var savesExportCmd = &cobra.Command{
	Use:   "export <name> [file]",
	Short: "Write a saved board to a JSON file",
	Long: `Write a saved board to a JSON file. Without a file argument the board is
written to <saves_dir>/<name>.json.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runSavesExport,
}

var savesImportCmd = &cobra.Command{
	Use:   "import <file> [name]",
	Short: "Store a JSON board file in a slot",
	Long: `Load, validate and store a board file. The slot name defaults to the
file name without its extension. Files that fail to load are rejected.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runSavesImport,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved board and its run history",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesDelete,
}

var savesBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick a saved board interactively and play it",
	Args:  cobra.NoArgs,
	Run:   runSavesBrowse,
}

func init() {
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesShowCmd)
	savesCmd.AddCommand(savesExportCmd)
	savesCmd.AddCommand(savesImportCmd)
	savesCmd.AddCommand(savesDeleteCmd)
	savesCmd.AddCommand(savesBrowseCmd)
}

func runSavesList(_ *cobra.Command, _ []string) {
	cfg, logger := setup()
	store := openStore(cfg, logger)
	defer store.Close()

	saves, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving saves: %v\n", err)
		os.Exit(1)
	}

	if len(saves) == 0 {
		fmt.Println("No saved boards yet.")
		fmt.Println()
		fmt.Println("Run 'pipes play' and press s to save one!")
		return
	}

	// Print header
	fmt.Printf("  %-20s  %-12s  %-7s  %-7s  %s\n", "Name", "Digest", "Size", "Runs", "Updated")
	fmt.Printf("  %-20s  %-12s  %-7s  %-7s  %s\n", "----", "------", "----", "----", "-------")

	for _, s := range saves {
		runs := "-"
		if stats, err := store.Stats(s.Name); err == nil && stats.Runs > 0 {
			runs = fmt.Sprintf("%d/%d", stats.Delivered, stats.Runs)
		}
		fmt.Printf("  %-20s  %-12s  %-7s  %-7s  %s\n",
			s.Name, s.Digest[:12], fmt.Sprintf("%dB", s.Size), runs, s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runSavesShow(_ *cobra.Command, args []string) {
	name := args[0]
	cfg, logger := setup()
	store := openStore(cfg, logger)
	defer store.Close()

	g, err := loadSlot(store, cfg, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	out := evaluate(g)
	fmt.Printf("Slot %s\n\n", name)
	fmt.Print(core.RenderASCII(g, &out))

	results, err := store.Results(name, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}
	if len(results) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent runs:")
	for _, r := range results {
		fmt.Printf("  %s  %-14s  steps %d\n", r.CreatedAt.Format("2006-01-02 15:04"), r.Outcome, r.Steps)
	}
}

func runSavesExport(_ *cobra.Command, args []string) {
	name := args[0]
	cfg, logger := setup()
	store := openStore(cfg, logger)
	defer store.Close()

	path := filepath.Join(config.ExpandHome(cfg.Storage.SavesDir), name+".json")
	if len(args) == 2 {
		path = args[1]
	}

	g, err := loadSlot(store, cfg, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
	if err := savefile.WriteFile(path, g); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	fmt.Printf("Exported %s to %s\n", name, path)
}

func runSavesImport(_ *cobra.Command, args []string) {
	path := args[0]
	name := filepath.Base(path)
	name = name[:len(name)-len(filepath.Ext(name))]
	if len(args) == 2 {
		name = args[1]
	}

	cfg, logger := setup()

	loader := savefile.NewLoader(filepath.Dir(path))
	loader.Options = cfg.DecoderOptions()
	g, err := loader.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Store the canonical encoding so equal boards share a digest
	body, err := savefile.Encode(g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := openStore(cfg, logger)
	defer store.Close()

	if twin, err := store.FindByDigest(savefile.Digest(body)); err == nil && twin != nil && twin.Name != name {
		logger.Info("board already saved under another name", "slot", twin.Name)
	}

	save, changed, err := store.Put(name, body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
	if !changed {
		fmt.Printf("Slot %s already holds this board\n", name)
		return
	}
	fmt.Printf("Imported %s into slot %s (%s)\n", path, save.Name, save.Digest[:12])
}

func runSavesDelete(_ *cobra.Command, args []string) {
	name := args[0]
	cfg, logger := setup()
	store := openStore(cfg, logger)
	defer store.Close()

	if err := store.Delete(name); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(os.Stderr, "Error: no saved board named %q\n", name)
			fmt.Fprintln(os.Stderr, "Run 'pipes saves list' to see saved boards.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		store.Close()
		os.Exit(1)
	}
	fmt.Printf("Deleted %s\n", name)
}

func runSavesBrowse(cmd *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: browse needs an interactive terminal; use 'pipes saves list'")
		os.Exit(1)
	}

	cfg, logger := setup()
	store := openStore(cfg, logger)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	chosen, err := tui.RunSaves(store, width, height)
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running browser: %v\n", err)
		os.Exit(1)
	}
	if chosen == "" {
		return
	}

	flagSlot = chosen
	runPlay(cmd, nil)
}
