package parser

import (
	"strings"
	"testing"
	"time"
)

func TestExtractTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		layout string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "default format with message",
			line:   "2024-01-15 10:30:00 INFO service started",
			layout: DefaultDateFormat,
			want:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "shortest prefix wins over trailing zone marker",
			line:   "2024-01-02 03:04:05Z rest of message",
			layout: DefaultDateFormat,
			want:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "whole line is the timestamp",
			line:   "2024-01-15 10:30:00",
			layout: DefaultDateFormat,
			want:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "date only layout matches at ten characters",
			line:   "2024-01-15 anything",
			layout: "2006-01-02",
			want:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "offset is converted to UTC",
			line:   "2024-01-15T10:30:00+02:00 GET /health",
			layout: time.RFC3339,
			want:   time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "no timestamp",
			line:   "connection reset by peer",
			layout: DefaultDateFormat,
			wantOK: false,
		},
		{
			name:   "timestamp not at start",
			line:   "[worker] 2024-01-15 10:30:00 job done",
			layout: DefaultDateFormat,
			wantOK: false,
		},
		{
			name:   "timestamp beyond forty characters",
			line:   strings.Repeat(" ", 25) + "2024-01-15 10:30:00 late",
			layout: DefaultDateFormat,
			wantOK: false,
		},
		{
			name:   "leading padding inside the window is trimmed",
			line:   "   2024-01-15 10:30:00 padded",
			layout: DefaultDateFormat,
			want:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "empty line",
			line:   "",
			layout: DefaultDateFormat,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTimestamp(tt.line, tt.layout)
			if ok != tt.wantOK {
				t.Fatalf("ExtractTimestamp() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ExtractTimestamp() = %v, want %v", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ExtractTimestamp() location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestExtractTimestamp_ShortLines(t *testing.T) {
	// The layout would accept both lines if they were ever tried.
	layout := "06-01-02"
	for _, line := range []string{"24-01-02", "24-01-02 ", " 24-01-02"} {
		if _, err := ParseTimestamp(strings.TrimSpace(line), layout); err != nil {
			t.Fatalf("layout sanity check failed: %v", err)
		}
		if _, ok := ExtractTimestamp(line, layout); ok {
			t.Errorf("ExtractTimestamp(%q) succeeded on a %d character line", line, len(line))
		}
	}
}

func TestExtractTimestamp_MultibyteCharacters(t *testing.T) {
	line := "2024-01-15 10:30:00 état: démarré ✓"
	got, ok := ExtractTimestamp(line, DefaultDateFormat)
	if !ok {
		t.Fatal("ExtractTimestamp() found no timestamp")
	}
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ExtractTimestamp() = %v, want %v", got, want)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("2024-03-01 00:00:00", DefaultDateFormat)
	if err != nil {
		t.Fatalf("ParseTimestamp() error = %v", err)
	}
	if !got.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseTimestamp() = %v", got)
	}

	if _, err := ParseTimestamp("2024-03-01", DefaultDateFormat); err == nil {
		t.Error("ParseTimestamp() expected error for partial input")
	}
	if _, err := ParseTimestamp("2024-03-01 00:00:00 extra", DefaultDateFormat); err == nil {
		t.Error("ParseTimestamp() expected error for trailing text")
	}
}
