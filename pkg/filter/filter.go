// Package filter compiles user-supplied filter settings into a Spec and
// evaluates records against it.
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ccollicutt/logz/pkg/parser"
)

// Config is the raw, uncompiled filter configuration.
type Config struct {
	// DateFormat is the Go time layout used for From and To.
	// Empty means parser.DefaultDateFormat.
	DateFormat string

	// From and To are optional inclusive bounds, parsed with DateFormat.
	From string
	To   string

	// Levels lists accepted severity tokens. Empty accepts any level,
	// including records with none.
	Levels []string

	// Match is a case-sensitive substring the line must contain.
	Match string

	// Regex is a pattern that must match somewhere in the line.
	Regex string
}

// ConfigError reports a filter setting that could not be compiled.
type ConfigError struct {
	Field string // from, to, regex
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Spec is a compiled filter. All configured checks must pass for a record
// to match; unset fields impose no constraint. A Spec is read-only after
// Build and may be shared.
type Spec struct {
	from    *time.Time
	to      *time.Time
	levels  map[parser.Level]bool
	match   string
	pattern *regexp.Regexp
}

// Build compiles cfg into a Spec.
func Build(cfg Config) (*Spec, error) {
	layout := cfg.DateFormat
	if layout == "" {
		layout = parser.DefaultDateFormat
	}

	spec := &Spec{match: cfg.Match}

	if cfg.From != "" {
		ts, err := parser.ParseTimestamp(cfg.From, layout)
		if err != nil {
			return nil, &ConfigError{Field: "from", Value: cfg.From, Err: fmt.Errorf("does not match date format %q: %w", layout, err)}
		}
		spec.from = &ts
	}

	if cfg.To != "" {
		ts, err := parser.ParseTimestamp(cfg.To, layout)
		if err != nil {
			return nil, &ConfigError{Field: "to", Value: cfg.To, Err: fmt.Errorf("does not match date format %q: %w", layout, err)}
		}
		spec.to = &ts
	}

	for _, l := range cfg.Levels {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if spec.levels == nil {
			spec.levels = make(map[parser.Level]bool)
		}
		spec.levels[parser.Level(l)] = true
	}

	if cfg.Regex != "" {
		re, err := regexp.Compile(cfg.Regex)
		if err != nil {
			return nil, &ConfigError{Field: "regex", Value: cfg.Regex, Err: err}
		}
		spec.pattern = re
	}

	return spec, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// package-level filters with constant settings.
func MustBuild(cfg Config) *Spec {
	spec, err := Build(cfg)
	if err != nil {
		panic(err)
	}
	return spec
}

// Matches reports whether rec passes every configured check.
func (s *Spec) Matches(rec *parser.Record) bool {
	if s == nil {
		return true
	}

	if s.from != nil || s.to != nil {
		if rec.Timestamp == nil {
			return false
		}
		if s.from != nil && rec.Timestamp.Before(*s.from) {
			return false
		}
		if s.to != nil && rec.Timestamp.After(*s.to) {
			return false
		}
	}

	if len(s.levels) > 0 {
		if rec.Level == "" || !s.levels[rec.Level] {
			return false
		}
	}

	if s.match != "" && !strings.Contains(rec.Raw, s.match) {
		return false
	}

	if s.pattern != nil && !s.pattern.MatchString(rec.Raw) {
		return false
	}

	return true
}

// Unsatisfiable reports whether the time bounds exclude every instant.
func (s *Spec) Unsatisfiable() bool {
	return s != nil && s.from != nil && s.to != nil && s.from.After(*s.to)
}

// Empty reports whether no check is configured, so every record matches.
func (s *Spec) Empty() bool {
	return s == nil || (s.from == nil && s.to == nil && len(s.levels) == 0 && s.match == "" && s.pattern == nil)
}

// From returns the lower bound, if set.
func (s *Spec) From() (time.Time, bool) {
	if s == nil || s.from == nil {
		return time.Time{}, false
	}
	return *s.from, true
}

// To returns the upper bound, if set.
func (s *Spec) To() (time.Time, bool) {
	if s == nil || s.to == nil {
		return time.Time{}, false
	}
	return *s.to, true
}

// Levels returns the accepted levels in sorted order.
func (s *Spec) Levels() []parser.Level {
	if s == nil {
		return nil
	}
	out := make([]parser.Level, 0, len(s.levels))
	for l := range s.levels {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String summarises the configured checks, for logging.
func (s *Spec) String() string {
	if s.Empty() {
		return "none"
	}
	var parts []string
	if from, ok := s.From(); ok {
		parts = append(parts, "from="+from.Format(time.RFC3339))
	}
	if to, ok := s.To(); ok {
		parts = append(parts, "to="+to.Format(time.RFC3339))
	}
	if levels := s.Levels(); len(levels) > 0 {
		names := make([]string, len(levels))
		for i, l := range levels {
			names[i] = string(l)
		}
		parts = append(parts, "levels="+strings.Join(names, ","))
	}
	if s.match != "" {
		parts = append(parts, fmt.Sprintf("match=%q", s.match))
	}
	if s.pattern != nil {
		parts = append(parts, fmt.Sprintf("regex=%q", s.pattern.String()))
	}
	return strings.Join(parts, " ")
}
