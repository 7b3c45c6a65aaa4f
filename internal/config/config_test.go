package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	var cfg PipesConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults differ from Default():\n%+v\n%+v", cfg, Default())
	}
}

func TestDefaultBoard(t *testing.T) {
	g := Default().Board.NewBoard()

	if g.Rows != 5 || g.Cols != 5 {
		t.Fatalf("expected 5x5 board, got %dx%d", g.Rows, g.Cols)
	}
	start, end, ok := g.Endpoints()
	if !ok || start != 0 || end != 24 {
		t.Errorf("expected endpoints 0 and 24, got %d %d %v", start, end, ok)
	}
	if d, _ := g.StartDirection(); d != core.DirRight {
		t.Errorf("expected water to start right, got %s", d)
	}
}

func TestLoadCustomYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipes.yaml")
	body := "board:\n  rows: 3\n  cols: 4\n  sink:\n    row: 2\n    col: 3\n  source_dir: down\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Rows != 3 || cfg.Board.Cols != 4 {
		t.Errorf("expected 3x4, got %dx%d", cfg.Board.Rows, cfg.Board.Cols)
	}
	if d, _ := cfg.Board.SourceDirection(); d != core.DirDown {
		t.Errorf("expected down, got %s", d)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Log.Level)
	}
	// Untouched keys keep their defaults
	if cfg.Decoder.MaxDepth != 512 || cfg.Storage.ExportFile != "gamePlay.json" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipes.toml")
	body := "[board]\nrows = 2\ncols = 2\n\n[board.sink]\nrow = 1\ncol = 1\n\n[decoder]\nmax_depth = 8\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Rows != 2 || cfg.Board.Sink != (PointConfig{Row: 1, Col: 1}) {
		t.Errorf("unexpected board %+v", cfg.Board)
	}
	if cfg.DecoderOptions().MaxDepth != 8 {
		t.Errorf("expected max depth 8, got %d", cfg.DecoderOptions().MaxDepth)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("board: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	offBoard := filepath.Join(dir, "off.yaml")
	if err := os.WriteFile(offBoard, []byte("board:\n  rows: 2\n  cols: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(offBoard); err == nil {
		t.Error("expected sink (4,4) to be rejected on a 2x2 board")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PipesConfig)
		ok     bool
	}{
		{"default", func(*PipesConfig) {}, true},
		{"zero rows", func(c *PipesConfig) { c.Board.Rows = 0 }, false},
		{"bad direction", func(c *PipesConfig) { c.Board.SourceDir = "north" }, false},
		{"empty direction", func(c *PipesConfig) { c.Board.SourceDir = "" }, true},
		{"source off board", func(c *PipesConfig) { c.Board.Source.Col = -1 }, false},
		{"shared cell", func(c *PipesConfig) { c.Board.Sink = c.Board.Source }, false},
		{"negative depth", func(c *PipesConfig) { c.Decoder.MaxDepth = -1 }, false},
		{"zero flow rate", func(c *PipesConfig) { c.UI.FlowRate = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	if got := ExpandHome("/tmp/x"); got != "/tmp/x" {
		t.Errorf("absolute path changed: %s", got)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Errorf("unexpected expansion %s", got)
	}
}
