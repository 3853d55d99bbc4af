package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ccollicutt/logz/pkg/output"
	"github.com/ccollicutt/logz/pkg/parser"
	"github.com/ccollicutt/logz/pkg/tail"
)

// Environment variable names.
const (
	EnvConfig       = "LOGZ_CONFIG"
	EnvLogSources   = "LOGZ_LOG_SOURCES"
	EnvDateFormat   = "LOGZ_DATE_FORMAT"
	EnvTailInterval = "LOGZ_TAIL_INTERVAL"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogSources: []string{},
		DateFormat: parser.DefaultDateFormat,
		Tail: TailConfig{
			Interval: tail.DefaultInterval,
		},
		Output: OutputConfig{
			Format:      output.FormatText,
			StatsFormat: output.FormatJSON,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if sources := os.Getenv(EnvLogSources); sources != "" {
		c.LogSources = nil
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.LogSources = append(c.LogSources, s)
			}
		}
	}

	if layout := os.Getenv(EnvDateFormat); layout != "" {
		c.DateFormat = layout
	}

	if raw := os.Getenv(EnvTailInterval); raw != "" {
		interval, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTailInterval, err)
		}
		c.Tail.Interval = interval
	}

	return nil
}
