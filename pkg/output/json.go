package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/logz/pkg/parser"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return FormatJSON
}

// Format renders the records as a JSON array. Verbose mode wraps them with
// the run metadata; quiet mode prints only the metadata.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	switch {
	case f.opts.Quiet:
		return encoder.Encode(report.Metadata)
	case f.opts.Verbose:
		return encoder.Encode(report)
	default:
		return encoder.Encode(report.Records)
	}
}

// FormatStats renders the summary as JSON.
func (f *JSONFormatter) FormatStats(ctx context.Context, report *StatsReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Verbose {
		return encoder.Encode(report)
	}
	return encoder.Encode(report.Summary)
}

// JSONRenderer writes each record as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(rec parser.Record) error {
	return r.enc.Encode(rec)
}
