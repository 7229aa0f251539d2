package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults read from a locobasic YAML file. Command-line
// flags override them.
type Config struct {
	Strict bool   `yaml:"strict"`
	OutDir string `yaml:"out_dir"`
	Dump   bool   `yaml:"dump"`
	// History is the REPL history file; empty disables history.
	History string `yaml:"history"`
}

// LoadConfig reads and parses the YAML config at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
