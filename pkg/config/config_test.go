package config

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ValidYAML(t *testing.T) {
	content := `
log_sources:
  - /var/log/*.log
date_format: "2006-01-02T15:04:05"
filter:
  from: "2024-01-01T00:00:00"
  levels: [error, warn]
  regex: 'timeout \d+'
tail:
  interval: 2
  from_start: true
output:
  format: markdown
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.LogSources) != 1 {
		t.Errorf("LogSources = %d, want 1", len(cfg.LogSources))
	}
	if cfg.DateFormat != "2006-01-02T15:04:05" {
		t.Errorf("DateFormat = %q", cfg.DateFormat)
	}
	if len(cfg.Filter.Levels) != 2 {
		t.Errorf("Levels = %v, want 2 entries", cfg.Filter.Levels)
	}
	if cfg.Tail.Interval != 2 || !cfg.Tail.FromStart {
		t.Errorf("Tail = %+v", cfg.Tail)
	}
	if cfg.Output.Format != "markdown" {
		t.Errorf("Output.Format = %q, want markdown", cfg.Output.Format)
	}
	if cfg.Output.StatsFormat != "json" {
		t.Errorf("Output.StatsFormat = %q, want default json", cfg.Output.StatsFormat)
	}
}

func TestLoad_ValidTOML(t *testing.T) {
	content := `
log_sources = ["/var/log/app.log"]

[filter]
levels = ["ERROR"]
match = "db"

[tail]
interval = 0.25
notify = true
`
	path := writeTempFile(t, "config.toml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Filter.Match != "db" {
		t.Errorf("Match = %q, want db", cfg.Filter.Match)
	}
	if cfg.Tail.Interval != 0.25 || !cfg.Tail.Notify {
		t.Errorf("Tail = %+v", cfg.Tail)
	}
	if cfg.DateFormat != "2006-01-02 15:04:05" {
		t.Errorf("DateFormat = %q, want default", cfg.DateFormat)
	}
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tail.Interval != 0.5 {
		t.Errorf("Interval = %v, want 0.5", cfg.Tail.Interval)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeTempFile(t, "invalid.toml", `[tail`)
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for invalid TOML")
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "config.json", `{}`)
	_, err := Load(context.Background(), path)
	if err == nil || !strings.Contains(err.Error(), "unsupported config extension") {
		t.Errorf("Load() error = %v, want unsupported extension", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvDateFormat, "02/01/2006 15:04")
	t.Setenv(EnvTailInterval, "1.5")
	t.Setenv(EnvLogSources, "a.log, ,b.log")

	path := writeTempFile(t, "config.yaml", "date_format: \"2006\"\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DateFormat != "02/01/2006 15:04" {
		t.Errorf("DateFormat = %q, want env value", cfg.DateFormat)
	}
	if cfg.Tail.Interval != 1.5 {
		t.Errorf("Interval = %v, want 1.5", cfg.Tail.Interval)
	}
	if len(cfg.LogSources) != 2 || cfg.LogSources[1] != "b.log" {
		t.Errorf("LogSources = %v", cfg.LogSources)
	}
}

func TestLoad_NonFiniteEnvironmentInterval(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-Inf"} {
		t.Setenv(EnvTailInterval, raw)
		_, err := Load(context.Background(), "")
		if err == nil || !strings.Contains(err.Error(), "tail.interval") {
			t.Errorf("Load() with %s=%s error = %v, want tail.interval error", EnvTailInterval, raw, err)
		}
	}
}

func TestLoad_InvalidEnvironmentInterval(t *testing.T) {
	t.Setenv(EnvTailInterval, "fast")
	_, err := Load(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), EnvTailInterval) {
		t.Errorf("Load() error = %v, want %s error", err, EnvTailInterval)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty date format", func(c *Config) { c.DateFormat = "  " }, "date_format"},
		{"zero interval", func(c *Config) { c.Tail.Interval = 0 }, "tail.interval"},
		{"negative interval", func(c *Config) { c.Tail.Interval = -1 }, "tail.interval"},
		{"NaN interval", func(c *Config) { c.Tail.Interval = math.NaN() }, "tail.interval"},
		{"infinite interval", func(c *Config) { c.Tail.Interval = math.Inf(1) }, "tail.interval"},
		{"sub-nanosecond interval", func(c *Config) { c.Tail.Interval = 1e-12 }, "tail.interval"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"format is case insensitive", func(c *Config) { c.Output.Format = "JSON" }, ""},
		{"text stats format", func(c *Config) { c.Output.StatsFormat = "text" }, "output.stats_format"},
		{"bad regex", func(c *Config) { c.Filter.Regex = "([" }, "filter"},
		{"bad from", func(c *Config) { c.Filter.From = "yesterday" }, "filter"},
		{"levels", func(c *Config) { c.Filter.Levels = []string{"info"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DateFormat != "2006-01-02 15:04:05" {
		t.Errorf("DateFormat = %q", cfg.DateFormat)
	}
	if cfg.Tail.Interval != 0.5 {
		t.Errorf("Interval = %v, want 0.5", cfg.Tail.Interval)
	}
	if cfg.Tail.FromStart || cfg.Tail.Notify || cfg.Tail.Retry {
		t.Errorf("Tail flags should default to false: %+v", cfg.Tail)
	}
	if cfg.LogSources == nil {
		t.Error("LogSources should be initialized")
	}
}

func TestFilterSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DateFormat = "2006"
	cfg.Filter = FilterConfig{From: "2024", Levels: []string{"ERROR"}, Match: "x"}

	fc := cfg.FilterSettings()
	if fc.DateFormat != "2006" || fc.From != "2024" || fc.Match != "x" {
		t.Errorf("FilterSettings() = %+v", fc)
	}

	fc.Levels[0] = "INFO"
	if cfg.Filter.Levels[0] != "ERROR" {
		t.Error("FilterSettings() should copy levels")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/logz.yaml")
	if err != nil {
		t.Fatalf("expandPath() error = %v", err)
	}
	if got != filepath.Join(home, "logz.yaml") {
		t.Errorf("expandPath() = %q", got)
	}

	got, _ = expandPath(" /etc/logz.yaml ")
	if got != "/etc/logz.yaml" {
		t.Errorf("expandPath() = %q", got)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
