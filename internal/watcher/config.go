package watcher

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultCommand     = "go run ./cmd/server"
	defaultDebounce    = 400 * time.Millisecond
	defaultKillTimeout = 5 * time.Second
)

var (
	defaultRoots      = []string{"."}
	defaultExtensions = []string{".go", ".yaml", ".yml", ".env"}
	defaultIgnoreDirs = []string{".git", "vendor", "node_modules"}
)

// Config controls what gets watched and how the command is run.
type Config struct {
	Command     string
	Roots       []string
	Extensions  []string
	IgnoreDirs  []string
	Debounce    time.Duration
	KillTimeout time.Duration
}

// yamlConfig represents the devwatch.yaml file structure.
type yamlConfig struct {
	Command     string   `yaml:"command"`
	Roots       []string `yaml:"roots"`
	Extensions  []string `yaml:"extensions"`
	IgnoreDirs  []string `yaml:"ignore_dirs"`
	Debounce    string   `yaml:"debounce"`
	KillTimeout string   `yaml:"kill_timeout"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Command:     defaultCommand,
		Roots:       append([]string(nil), defaultRoots...),
		Extensions:  append([]string(nil), defaultExtensions...),
		IgnoreDirs:  append([]string(nil), defaultIgnoreDirs...),
		Debounce:    defaultDebounce,
		KillTimeout: defaultKillTimeout,
	}
}

// LoadConfig reads the runner configuration file and overlays it on the
// defaults. An empty path means defaults only.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return Config{}, fmt.Errorf("parse YAML: %w", err)
	}

	applyYAMLConfig(&cfg, &yamlCfg)
	return cfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Command != "" {
		cfg.Command = yamlCfg.Command
	}

	if len(yamlCfg.Roots) > 0 {
		cfg.Roots = yamlCfg.Roots
	}

	if len(yamlCfg.Extensions) > 0 {
		cfg.Extensions = yamlCfg.Extensions
	}

	if len(yamlCfg.IgnoreDirs) > 0 {
		cfg.IgnoreDirs = yamlCfg.IgnoreDirs
	}

	if yamlCfg.Debounce != "" {
		if d, err := time.ParseDuration(yamlCfg.Debounce); err == nil {
			cfg.Debounce = d
		}
	}

	if yamlCfg.KillTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.KillTimeout); err == nil {
			cfg.KillTimeout = d
		}
	}
}
