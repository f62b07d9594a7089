// Package config loads the optional .duality.yaml configuration file
// that the CLI and LSP driver shells read at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the settings the CLI/LSP shells read at startup. Zero
// values are valid defaults: a silent, uncolored, uncapped run.
type Config struct {
	ServerLogLevel         string `yaml:"server_log_level"`
	MaxRecursionUnfoldings int    `yaml:"max_recursion_unfoldings"`
	ColorOutput            bool   `yaml:"color_output"`
}

// DefaultMaxRecursionUnfoldings bounds how many times the subtype
// checker unfolds a pair of recursive types (after a memo miss) before
// deferring with Maybe, when the config file doesn't set its own cap.
const DefaultMaxRecursionUnfoldings = 64

// Load searches, in order, $DUALITY_CONFIG, ./.duality.yaml and
// $HOME/.duality.yaml, and parses the first one found. If none exist
// it returns the zero Config (with MaxRecursionUnfoldings filled in
// from DefaultMaxRecursionUnfoldings) rather than an error — an absent
// config file is a normal way to run.
func Load() (*Config, error) {
	path, ok := findConfigFile()
	if !ok {
		return &Config{MaxRecursionUnfoldings: DefaultMaxRecursionUnfoldings}, nil
	}
	return LoadFile(path)
}

// LoadFile parses the config at path explicitly, without the search
// order Load uses.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	if cfg.MaxRecursionUnfoldings == 0 {
		cfg.MaxRecursionUnfoldings = DefaultMaxRecursionUnfoldings
	}

	return &cfg, nil
}

func findConfigFile() (string, bool) {
	if p := os.Getenv("DUALITY_CONFIG"); p != "" {
		if fileExists(p) {
			return p, true
		}
	}

	if fileExists(".duality.yaml") {
		return ".duality.yaml", true
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".duality.yaml")
		if fileExists(p) {
			return p, true
		}
	}

	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
