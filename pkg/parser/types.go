// Package parser enriches raw log lines with a timestamp and severity level
// and iterates enriched records over a set of log files.
package parser

import "time"

// DefaultDateFormat is the layout used when none is configured:
// year-month-day hour:minute:second, 24-hour clock, space separated.
const DefaultDateFormat = "2006-01-02 15:04:05"

// Record is one enriched log line. Records are values and are never
// modified after Enrich returns them.
type Record struct {
	// Source labels the originating file (its base name), or "stdin".
	Source string `json:"source"`

	// Line is the 1-based line number within the source, when known.
	Line int `json:"line,omitempty"`

	// Raw is the line text with surrounding whitespace removed.
	Raw string `json:"raw"`

	// Timestamp is the instant extracted from the start of the line, in UTC.
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// Level is the detected severity token, empty when none was found.
	Level Level `json:"level,omitempty"`
}

// HasTimestamp reports whether a timestamp was extracted.
func (r *Record) HasTimestamp() bool {
	return r.Timestamp != nil
}

// HasLevel reports whether a severity level was detected.
func (r *Record) HasLevel() bool {
	return r.Level != ""
}
