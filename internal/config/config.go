package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration for the toolkit. Every
// field has a working default so the config file can be absent.
type Config struct {
	PlatformName string `yaml:"platform_name"`
	DBPath       string `yaml:"db_path"`
	LogLevel     string `yaml:"log_level"`

	// KPITargets overrides the built-in target values, keyed by KPI
	// name.
	KPITargets map[string]float64 `yaml:"kpi_targets"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		PlatformName: "realpulse",
		DBPath:       "./realpulse.db",
		LogLevel:     "info",
	}
}

// Load reads the config file at path, falling back to defaults for a
// missing file and for any unset field.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	defaults := Default()
	if cfg.PlatformName == "" {
		cfg.PlatformName = defaults.PlatformName
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaults.DBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}

	return cfg, nil
}
