package output

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/logz/pkg/parser"
)

// TextFormatter formats reports as plain text, one raw line per record.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return FormatText
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}

	for _, rec := range report.Records {
		var err error
		if f.opts.Verbose {
			_, err = fmt.Fprintf(w, "%s:%d: %s\n", rec.Source, rec.Line, rec.Raw)
		} else {
			_, err = fmt.Fprintln(w, rec.Raw)
		}
		if err != nil {
			return err
		}
	}

	if f.opts.Verbose {
		return f.formatQuiet(report, w)
	}
	return nil
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "logz: %d of %d lines matched across %d file(s) in %s\n",
		report.Metadata.LinesMatched,
		report.Metadata.LinesRead,
		len(report.Metadata.Sources),
		report.Metadata.Duration.Round(time.Millisecond))
	return err
}

var (
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleCrit  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
	styleSource = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
)

// TextRenderer prints records to a terminal with severity-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(rec parser.Record) error {
	_, err := fmt.Fprintf(r.w, "%s %s %s\n",
		styleLevelTag(rec.Level),
		styleSource.Render(rec.Source),
		rec.Raw)
	return err
}

func styleLevelTag(level parser.Level) string {
	if level == "" {
		return styleInfo.Render(fmt.Sprintf("%-8s", "-"))
	}
	padded := fmt.Sprintf("%-8s", level)
	switch level {
	case parser.LevelDebug:
		return styleDebug.Render(padded)
	case parser.LevelWarn, parser.LevelWarning:
		return styleWarn.Render(padded)
	case parser.LevelError:
		return styleError.Render(padded)
	case parser.LevelCritical:
		return styleCrit.Render(padded)
	default:
		return styleInfo.Render(padded)
	}
}
