// Package config loads the optional CLI/REPL configuration file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences for the CLI and REPL
type Config struct {
	Prompt      string `yaml:"prompt"`
	NoColor     bool   `yaml:"no_color"`
	HistoryFile string `yaml:"history_file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Prompt:      "λ> ",
		HistoryFile: filepath.Join(os.TempDir(), ".deplang_history"),
	}
}

// Load reads a config file, filling unset fields with defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Prompt == "" {
		cfg.Prompt = Default().Prompt
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = Default().HistoryFile
	}
	return cfg, nil
}

// LoadDefault loads ~/.deplang.yaml if present
func LoadDefault() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	return Load(filepath.Join(home, ".deplang.yaml"))
}
