package config

import (
	_ "embed"
)

//go:embed defaults/pipes.yaml
var defaultPipesYAML []byte

// Default returns the hardcoded configuration.
// A 5x5 board with water entering at the top-left corner and leaving at the
// bottom-right one.
func Default() PipesConfig {
	return PipesConfig{
		Board: BoardConfig{
			Rows:      5,
			Cols:      5,
			Source:    PointConfig{Row: 0, Col: 0},
			SourceDir: "right",
			Sink:      PointConfig{Row: 4, Col: 4},
		},
		Decoder: DecoderConfig{
			MaxDepth: 512,
		},
		Storage: StorageConfig{
			DBPath:     "~/.pipes/pipes.db",
			SavesDir:   "~/.pipes/saves",
			ExportFile: "gamePlay.json",
		},
		Log: LogConfig{
			Level: "info",
		},
		UI: UIConfig{
			Theme:    "default",
			FlowRate: 12,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultPipesYAML
}
