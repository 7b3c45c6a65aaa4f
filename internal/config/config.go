// Package config provides YAML and TOML configuration loading for the
// pipes puzzle.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/jsondoc"
)

// PipesConfig contains all configuration for the pipes puzzle.
type PipesConfig struct {
	Board   BoardConfig   `yaml:"board" toml:"board"`
	Decoder DecoderConfig `yaml:"decoder" toml:"decoder"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
}

// BoardConfig defines the layout of a fresh board.
type BoardConfig struct {
	Rows      int         `yaml:"rows" toml:"rows"`
	Cols      int         `yaml:"cols" toml:"cols"`
	Source    PointConfig `yaml:"source" toml:"source"`
	SourceDir string      `yaml:"source_dir" toml:"source_dir"` // "up", "right", "down" or "left"
	Sink      PointConfig `yaml:"sink" toml:"sink"`
}

// PointConfig is a zero-based board position.
type PointConfig struct {
	Row int `yaml:"row" toml:"row"`
	Col int `yaml:"col" toml:"col"`
}

// DecoderConfig bounds what the save file decoder accepts.
type DecoderConfig struct {
	MaxDepth int `yaml:"max_depth" toml:"max_depth"` // 0 = unlimited
}

// StorageConfig defines where saves live.
type StorageConfig struct {
	DBPath     string `yaml:"db_path" toml:"db_path"`
	SavesDir   string `yaml:"saves_dir" toml:"saves_dir"`
	ExportFile string `yaml:"export_file" toml:"export_file"` // Written next to the slot on save
}

// LogConfig controls the logger built by the CLI.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"` // debug, info, warn, error
}

// UIConfig controls the terminal front-end.
type UIConfig struct {
	Theme    string `yaml:"theme" toml:"theme"`         // "default" or "monochrome"
	FlowRate int    `yaml:"flow_rate" toml:"flow_rate"` // Cells revealed per second when water runs
}

// Validate checks that the board layout describes a playable board.
func (c PipesConfig) Validate() error {
	b := c.Board
	if b.Rows < 1 || b.Cols < 1 {
		return fmt.Errorf("board must be at least 1x1, got %dx%d", b.Rows, b.Cols)
	}
	if _, err := b.SourceDirection(); err != nil {
		return err
	}
	if !b.contains(b.Source) {
		return fmt.Errorf("source (%d,%d) is off the %dx%d board", b.Source.Row, b.Source.Col, b.Rows, b.Cols)
	}
	if !b.contains(b.Sink) {
		return fmt.Errorf("sink (%d,%d) is off the %dx%d board", b.Sink.Row, b.Sink.Col, b.Rows, b.Cols)
	}
	if b.Source == b.Sink {
		return fmt.Errorf("source and sink share position (%d,%d)", b.Sink.Row, b.Sink.Col)
	}
	if c.UI.FlowRate < 1 {
		return fmt.Errorf("ui flow_rate must be positive, got %d", c.UI.FlowRate)
	}
	if c.Decoder.MaxDepth < 0 {
		return fmt.Errorf("decoder max_depth must not be negative, got %d", c.Decoder.MaxDepth)
	}
	return nil
}

func (b BoardConfig) contains(p PointConfig) bool {
	return p.Row >= 0 && p.Row < b.Rows && p.Col >= 0 && p.Col < b.Cols
}

// SourceDirection parses SourceDir. An empty value means right.
func (b BoardConfig) SourceDirection() (core.Dir, error) {
	if b.SourceDir == "" {
		return core.DirRight, nil
	}
	d, ok := core.ParseDir(b.SourceDir)
	if !ok {
		return core.DirRight, fmt.Errorf("unknown source_dir %q", b.SourceDir)
	}
	return d, nil
}

// NewBoard builds an empty board with the configured source and sink.
func (b BoardConfig) NewBoard() *core.Grid {
	d, _ := b.SourceDirection()
	return core.NewBoard(b.Rows, b.Cols,
		core.P(b.Source.Row, b.Source.Col), d,
		core.P(b.Sink.Row, b.Sink.Col))
}

// DecoderOptions returns the decoder options for loading save files.
func (c PipesConfig) DecoderOptions() jsondoc.Options {
	return jsondoc.Options{MaxDepth: c.Decoder.MaxDepth}
}
