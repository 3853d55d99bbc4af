package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/logz/pkg/parser"
)

// Formatter renders the records of a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, markdown).
	Name() string
}

// StatsFormatter renders a stats report.
type StatsFormatter interface {
	FormatStats(ctx context.Context, report *StatsReport, w io.Writer) error
	Name() string
}

// Renderer writes records one at a time as they arrive.
type Renderer interface {
	Render(rec parser.Record) error
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose includes source positions and run metadata.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}

// Format names.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the record formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatMarkdown}
}

// StatsFormats lists the stats formats.
func StatsFormats() []string {
	return []string{FormatJSON, FormatMarkdown}
}

// NewFormatter returns the record formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch strings.ToLower(name) {
	case FormatText:
		return NewTextFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatMarkdown, "md":
		return NewMarkdownFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: %s)", name, strings.Join(Formats(), ", "))
	}
}

// NewStatsFormatter returns the stats formatter registered under name.
func NewStatsFormatter(name string, opts FormatOptions) (StatsFormatter, error) {
	switch strings.ToLower(name) {
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatMarkdown, "md":
		return NewMarkdownFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown stats format %q (valid: %s)", name, strings.Join(StatsFormats(), ", "))
	}
}
