package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/logz/pkg/parser"
)

func ts(s string) *time.Time {
	t, err := parser.ParseTimestamp(s, parser.DefaultDateFormat)
	if err != nil {
		panic(err)
	}
	return &t
}

func record(raw string, at *time.Time, level parser.Level) *parser.Record {
	return &parser.Record{Source: "test.log", Raw: raw, Timestamp: at, Level: level}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"bad from", Config{From: "yesterday"}, "from"},
		{"bad to", Config{To: "2024-13-45 99:99:99"}, "to"},
		{"partial to", Config{To: "2024-01-01"}, "to"},
		{"from with wrong layout", Config{DateFormat: "02/01/2006", From: "2024-01-01"}, "from"},
		{"bad regex", Config{Regex: "([a-z"}, "regex"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Build(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, spec)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "error %v is not a *ConfigError", err)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.NotEmpty(t, cfgErr.Value)
			assert.Contains(t, err.Error(), cfgErr.Value)
		})
	}
}

func TestBuild_Success(t *testing.T) {
	spec, err := Build(Config{
		From:   "2024-01-01 00:00:00",
		To:     "2024-01-31 23:59:59",
		Levels: []string{"error", " WARN ", "ERROR", ""},
		Match:  "db",
		Regex:  `timeout=\d+`,
	})
	require.NoError(t, err)

	from, ok := spec.From()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, []parser.Level{parser.LevelError, parser.LevelWarn}, spec.Levels())
	assert.False(t, spec.Empty())
	assert.False(t, spec.Unsatisfiable())
}

func TestBuild_CustomDateFormat(t *testing.T) {
	spec, err := Build(Config{DateFormat: "02/01/2006 15:04", From: "15/03/2024 08:00"})
	require.NoError(t, err)

	from, ok := spec.From()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), from)
}

func TestBuild_ReversedBoundsStillBuilds(t *testing.T) {
	spec, err := Build(Config{From: "2024-02-01 00:00:00", To: "2024-01-01 00:00:00"})
	require.NoError(t, err)
	assert.True(t, spec.Unsatisfiable())
}

func TestSpec_EmptyMatchesEverything(t *testing.T) {
	spec := MustBuild(Config{})
	assert.True(t, spec.Empty())
	assert.Equal(t, "none", spec.String())

	assert.True(t, spec.Matches(record("", nil, "")))
	assert.True(t, spec.Matches(record("anything", ts("2024-01-01 00:00:00"), parser.LevelInfo)))

	var nilSpec *Spec
	assert.True(t, nilSpec.Matches(record("x", nil, "")))
}

func TestSpec_TimeBounds(t *testing.T) {
	spec := MustBuild(Config{From: "2024-01-10 00:00:00", To: "2024-01-20 00:00:00"})

	tests := []struct {
		name string
		at   *time.Time
		want bool
	}{
		{"no timestamp", nil, false},
		{"before", ts("2024-01-09 23:59:59"), false},
		{"at lower bound", ts("2024-01-10 00:00:00"), true},
		{"inside", ts("2024-01-15 12:00:00"), true},
		{"at upper bound", ts("2024-01-20 00:00:00"), true},
		{"after", ts("2024-01-20 00:00:01"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, spec.Matches(record("x", tt.at, parser.LevelInfo)))
		})
	}
}

func TestSpec_SingleBoundRejectsMissingTimestamp(t *testing.T) {
	for _, cfg := range []Config{{From: "2024-01-01 00:00:00"}, {To: "2024-01-01 00:00:00"}} {
		spec := MustBuild(cfg)
		assert.False(t, spec.Matches(record("no time here", nil, parser.LevelError)))
	}
}

func TestSpec_Levels(t *testing.T) {
	spec := MustBuild(Config{Levels: []string{"error", "critical"}})

	assert.True(t, spec.Matches(record("x", nil, parser.LevelError)))
	assert.True(t, spec.Matches(record("x", nil, parser.LevelCritical)))
	assert.False(t, spec.Matches(record("x", nil, parser.LevelInfo)))
	assert.False(t, spec.Matches(record("x", nil, "")))
}

func TestSpec_WarningLevelNeverMatchesDetectedLines(t *testing.T) {
	spec := MustBuild(Config{Levels: []string{"WARNING"}})
	lvl, _ := parser.DetectLevel("WARNING: disk almost full")
	assert.False(t, spec.Matches(record("WARNING: disk almost full", nil, lvl)))
}

func TestSpec_MatchIsCaseSensitive(t *testing.T) {
	spec := MustBuild(Config{Match: "Timeout"})

	assert.True(t, spec.Matches(record("request Timeout after 5s", nil, "")))
	assert.False(t, spec.Matches(record("request timeout after 5s", nil, "")))
}

func TestSpec_RegexFindsAnywhere(t *testing.T) {
	spec := MustBuild(Config{Regex: `user=\w+`})

	assert.True(t, spec.Matches(record("login ok user=alice from 10.0.0.1", nil, "")))
	assert.False(t, spec.Matches(record("login ok", nil, "")))
}

func TestSpec_AllChecksAreANDed(t *testing.T) {
	spec := MustBuild(Config{
		From:   "2024-01-01 00:00:00",
		Levels: []string{"ERROR"},
		Match:  "db",
		Regex:  `code=5\d\d`,
	})

	at := ts("2024-01-02 00:00:00")
	early := ts("2023-12-31 00:00:00")

	assert.True(t, spec.Matches(record("db failure code=503", at, parser.LevelError)))

	// Each record fails exactly one check.
	assert.False(t, spec.Matches(record("db failure code=503", early, parser.LevelError)), "time")
	assert.False(t, spec.Matches(record("db failure code=503", nil, parser.LevelError)), "missing time")
	assert.False(t, spec.Matches(record("db failure code=503", at, parser.LevelWarn)), "level")
	assert.False(t, spec.Matches(record("cache failure code=503", at, parser.LevelError)), "substring")
	assert.False(t, spec.Matches(record("db failure code=404", at, parser.LevelError)), "regex")
}

func TestSpec_String(t *testing.T) {
	spec := MustBuild(Config{From: "2024-01-01 00:00:00", Levels: []string{"info"}, Match: "x", Regex: "y+"})
	assert.Equal(t, `from=2024-01-01T00:00:00Z levels=INFO match="x" regex="y+"`, spec.String())
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() { MustBuild(Config{Regex: "("}) })
}
