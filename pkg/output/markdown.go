package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownFormatter formats reports as Markdown tables.
type MarkdownFormatter struct {
	opts FormatOptions
}

// NewMarkdownFormatter creates a new Markdown formatter with the given options.
func NewMarkdownFormatter(opts FormatOptions) *MarkdownFormatter {
	return &MarkdownFormatter{opts: opts}
}

// Name returns the format name.
func (f *MarkdownFormatter) Name() string {
	return FormatMarkdown
}

// Format renders the records as a table.
func (f *MarkdownFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	var b strings.Builder

	b.WriteString("# Log records\n\n")
	if !f.opts.Quiet {
		if len(report.Records) == 0 {
			b.WriteString("_No matching records._\n\n")
		} else {
			b.WriteString("| Source | Line | Timestamp | Level | Message |\n")
			b.WriteString("|---|---:|---|---|---|\n")
			for _, rec := range report.Records {
				ts := ""
				if rec.Timestamp != nil {
					ts = rec.Timestamp.Format(time.RFC3339)
				}
				fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
					escapeCell(rec.Source), rec.Line, ts, rec.Level, escapeCell(rec.Raw))
			}
			b.WriteString("\n")
		}
	}

	writeMetadata(&b, report.Metadata)

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatStats renders the summary as Markdown.
func (f *MarkdownFormatter) FormatStats(ctx context.Context, report *StatsReport, w io.Writer) error {
	var b strings.Builder
	s := report.Summary

	b.WriteString("# Log statistics\n\n")
	fmt.Fprintf(&b, "- Total records: %d\n", s.Total)
	fmt.Fprintf(&b, "- With timestamp: %d\n", s.WithTimestamp)
	if s.First != nil && s.Last != nil {
		fmt.Fprintf(&b, "- First: %s\n", s.First.Format(time.RFC3339))
		fmt.Fprintf(&b, "- Last: %s\n", s.Last.Format(time.RFC3339))
		fmt.Fprintf(&b, "- Span: %s\n", s.Span())
	}

	b.WriteString("\n## By level\n\n")
	b.WriteString("| Level | Count |\n|---|---:|\n")
	for _, lc := range s.Levels() {
		fmt.Fprintf(&b, "| %s | %d |\n", lc.Level, lc.Count)
	}

	b.WriteString("\n## By source\n\n")
	b.WriteString("| Source | Count |\n|---|---:|\n")
	for _, name := range s.Sources() {
		fmt.Fprintf(&b, "| %s | %d |\n", escapeCell(name), s.BySource[name])
	}
	b.WriteString("\n")

	if f.opts.Verbose {
		writeMetadata(&b, report.Metadata)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMetadata(b *strings.Builder, m Metadata) {
	b.WriteString("## Run\n\n")
	fmt.Fprintf(b, "- Filter: `%s`\n", m.Filter)
	fmt.Fprintf(b, "- Lines read: %d\n", m.LinesRead)
	fmt.Fprintf(b, "- Lines matched: %d\n", m.LinesMatched)
	if m.Truncated {
		b.WriteString("- Output truncated at the match limit\n")
	}
	for _, src := range m.Sources {
		fmt.Fprintf(b, "- Source: %s\n", src)
	}
}

// escapeCell keeps pipes from breaking the table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
