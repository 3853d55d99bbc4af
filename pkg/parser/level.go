package parser

import "strings"

// Level is a severity token from the fixed vocabulary below.
type Level string

const (
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarn     Level = "WARN"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
)

// levelScan is consulted in order; the first token found in a line wins.
// WARN comes before WARNING, so lines containing WARNING report WARN.
var levelScan = []struct {
	level    Level
	priority int
}{
	{LevelDebug, 10},
	{LevelInfo, 20},
	{LevelWarn, 30},
	{LevelWarning, 30},
	{LevelError, 40},
	{LevelCritical, 50},
}

// Levels returns the vocabulary in scan order.
func Levels() []Level {
	out := make([]Level, len(levelScan))
	for i, l := range levelScan {
		out[i] = l.level
	}
	return out
}

// Priority orders levels by importance. Unknown levels have priority 0.
func (l Level) Priority() int {
	for _, s := range levelScan {
		if s.level == l {
			return s.priority
		}
	}
	return 0
}

// Valid reports whether l belongs to the vocabulary.
func (l Level) Valid() bool {
	return l.Priority() > 0
}

// DetectLevel returns the first vocabulary token that occurs anywhere in the
// upper-cased line.
func DetectLevel(line string) (Level, bool) {
	upper := strings.ToUpper(line)
	for _, s := range levelScan {
		if strings.Contains(upper, string(s.level)) {
			return s.level, true
		}
	}
	return "", false
}
