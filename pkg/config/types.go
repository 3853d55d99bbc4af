// Package config provides configuration loading and validation for logz.
package config

import (
	"github.com/ccollicutt/logz/pkg/filter"
)

// Config is the root configuration structure loaded from YAML or TOML.
// Every field is optional; command-line flags take precedence.
type Config struct {
	// LogSources are the paths or glob patterns read when no --path is given.
	LogSources []string `yaml:"log_sources" toml:"log_sources"`

	// DateFormat is the Go time layout used to find timestamps in lines and
	// to parse the filter bounds.
	// See https://pkg.go.dev/time#pkg-constants for format.
	DateFormat string `yaml:"date_format" toml:"date_format"`

	Filter FilterConfig `yaml:"filter" toml:"filter"`
	Tail   TailConfig   `yaml:"tail" toml:"tail"`
	Output OutputConfig `yaml:"output" toml:"output"`
}

// FilterConfig holds the default record filter.
type FilterConfig struct {
	From   string   `yaml:"from,omitempty" toml:"from,omitempty"`
	To     string   `yaml:"to,omitempty" toml:"to,omitempty"`
	Levels []string `yaml:"levels,omitempty" toml:"levels,omitempty"`
	Match  string   `yaml:"match,omitempty" toml:"match,omitempty"`
	Regex  string   `yaml:"regex,omitempty" toml:"regex,omitempty"`
}

// TailConfig controls the tail command.
type TailConfig struct {
	// Interval is the poll interval in seconds.
	Interval float64 `yaml:"interval" toml:"interval"`

	FromStart bool `yaml:"from_start" toml:"from_start"`

	// Notify wakes the poll loop early on filesystem events.
	Notify bool `yaml:"notify" toml:"notify"`

	// Retry keeps following after a failed poll instead of exiting.
	Retry bool `yaml:"retry" toml:"retry"`
}

// OutputConfig selects output formats.
type OutputConfig struct {
	// Format is the analyze output format: text, json or markdown.
	Format string `yaml:"format" toml:"format"`

	// StatsFormat is the stats output format: json or markdown.
	StatsFormat string `yaml:"stats_format" toml:"stats_format"`
}

// FilterSettings returns the filter configuration in the form filter.Build
// expects.
func (c *Config) FilterSettings() filter.Config {
	return filter.Config{
		DateFormat: c.DateFormat,
		From:       c.Filter.From,
		To:         c.Filter.To,
		Levels:     append([]string(nil), c.Filter.Levels...),
		Match:      c.Filter.Match,
		Regex:      c.Filter.Regex,
	}
}
