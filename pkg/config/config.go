package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/logz/pkg/filter"
	"github.com/ccollicutt/logz/pkg/output"
	"github.com/ccollicutt/logz/pkg/tail"
)

// Load reads and validates a configuration file. The extension selects the
// decoder: .yaml and .yml for YAML, .toml for TOML. An empty path yields the
// defaults with environment overrides applied.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if strings.TrimSpace(path) != "" {
		resolved, err := expandPath(path)
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(resolved) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := decode(resolved, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config extension %q (use .yaml, .yml or .toml)", ext)
	}
}

// Validate checks a configuration for errors, including compiling the
// default filter.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.DateFormat) == "" {
		return errors.New("date_format: must not be empty")
	}

	if _, err := filter.Build(cfg.FilterSettings()); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	if !tail.ValidInterval(cfg.Tail.Interval) {
		return fmt.Errorf("tail.interval: must be a finite number of seconds greater than zero, got %v", cfg.Tail.Interval)
	}

	if !slices.Contains(output.Formats(), strings.ToLower(cfg.Output.Format)) {
		return fmt.Errorf("output.format: invalid format %q (must be %s)",
			cfg.Output.Format, strings.Join(output.Formats(), ", "))
	}

	if !slices.Contains(output.StatsFormats(), strings.ToLower(cfg.Output.StatsFormat)) {
		return fmt.Errorf("output.stats_format: invalid format %q (must be %s)",
			cfg.Output.StatsFormat, strings.Join(output.StatsFormats(), ", "))
	}

	return nil
}

// expandPath resolves a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return trimmed, nil
}
