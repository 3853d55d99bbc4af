package parser

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Bounds of the prefix widths tried by ExtractTimestamp, in characters.
const (
	minPrefixLen = 10
	maxPrefixLen = 40
)

// ParseTimestamp parses the whole of s with the given Go time layout and
// returns the instant in UTC. Layouts that carry zone information honour the
// offset in s; layouts without it are read as UTC.
func ParseTimestamp(s, layout string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ExtractTimestamp looks for a timestamp at the start of line.
//
// Prefixes of 10 up to 40 characters are tried in increasing order, each one
// trimmed and parsed with layout; the first that parses wins. Lines shorter
// than 10 characters are never parsed.
func ExtractTimestamp(line, layout string) (time.Time, bool) {
	n := utf8.RuneCountInString(line)
	if n < minPrefixLen {
		return time.Time{}, false
	}
	limit := min(n, maxPrefixLen)

	chars := 0
	for offset := range line {
		if chars > limit {
			break
		}
		if chars >= minPrefixLen {
			if ts, ok := parsePrefix(line[:offset], layout); ok {
				return ts, true
			}
		}
		chars++
	}

	// The whole line is itself a candidate when it is short enough.
	if n <= maxPrefixLen {
		return parsePrefix(line, layout)
	}
	return time.Time{}, false
}

func parsePrefix(prefix, layout string) (time.Time, bool) {
	ts, err := ParseTimestamp(strings.TrimSpace(prefix), layout)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
