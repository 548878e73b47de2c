package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gllessons/internal/engine/input"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		UserConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "GLLessons")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "GLLessons")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "gllessons")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gllessons")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Bindings named in the file replace the default key for that action only.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	defaults := cfg.Controls
	cfg.Controls = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.Controls = mergeBindings(defaults, cfg.Controls)

	for action := range cfg.Controls {
		if _, err := input.ParseAction(string(action)); err != nil {
			return fmt.Errorf("controls: %w", err)
		}
	}
	return nil
}

func mergeBindings(base, override input.Bindings) input.Bindings {
	out := make(input.Bindings, len(base)+len(override))
	for a, k := range base {
		out[a] = k
	}
	for a, k := range override {
		out[a] = k
	}
	return out
}
