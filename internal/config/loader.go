package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load loads the pipes configuration.
// Search order: customPath -> ~/.pipes/config.yaml -> ./configs/pipes.yaml -> embedded default
//
// Files are decoded over Default(), so a file only needs the keys it changes.
// A custom path ending in .toml is parsed as TOML.
func Load(customPath string) (PipesConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(ExpandHome(customPath))
		if err != nil {
			return Default(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(customPath, data)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return Default(), fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if cfg, ok := tryFile(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := tryFile(filepath.Join("configs", "pipes.yaml")); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parse("pipes.yaml", defaultPipesYAML)
	if err != nil || cfg.Validate() != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryFile loads an optional config file. Unreadable or invalid files are skipped.
func tryFile(path string) (PipesConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PipesConfig{}, false
	}
	cfg, err := parse(path, data)
	if err != nil || cfg.Validate() != nil {
		return PipesConfig{}, false
	}
	return cfg, true
}

func parse(path string, data []byte) (PipesConfig, error) {
	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pipes", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
