package savefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/jsondoc"
)

// DefaultPattern matches save files anywhere below a loader root.
const DefaultPattern = "**/*.json"

// Entry is one file found by a Loader.
type Entry struct {
	Path string
	Grid *core.Grid // nil when Err is set
	Err  error
}

// Loader reads save files from a directory.
type Loader struct {
	Root    string
	Pattern string
	Options jsondoc.Options
}

// NewLoader creates a loader for root using DefaultPattern.
func NewLoader(root string) *Loader {
	return &Loader{
		Root:    root,
		Pattern: DefaultPattern,
		Options: jsondoc.DefaultOptions(),
	}
}

// LoadAll loads every file under Root matching Pattern.
// A file that fails to load is returned with Err set rather than skipped.
// Entries are sorted by path for deterministic ordering.
func (l *Loader) LoadAll() ([]Entry, error) {
	pattern := l.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}

	matches, err := doublestar.Glob(os.DirFS(l.Root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %s in %s: %w", pattern, l.Root, err)
	}
	sort.Strings(matches)

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(l.Root, filepath.FromSlash(m))
		g, err := l.LoadFile(path)
		entries = append(entries, Entry{Path: path, Grid: g, Err: err})
	}
	return entries, nil
}

// LoadFile loads a single save file.
func (l *Loader) LoadFile(path string) (*core.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	g, err := LoadWithOptions(string(data), l.Options)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return g, nil
}

// ExpandPaths resolves each argument as a file path or a doublestar glob.
// Arguments that match nothing are returned unchanged so callers report them.
func ExpandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			paths = append(paths, arg)
			continue
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

// WriteFile encodes a board and writes it to path.
func WriteFile(path string, g *core.Grid) error {
	data, err := Encode(g)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	return nil
}
