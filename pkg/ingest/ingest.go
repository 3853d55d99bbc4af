// Package ingest runs the batch pipeline: resolve paths, read every file in
// order, enrich each line and keep the records that pass the filter.
package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/logz/pkg/filter"
	"github.com/ccollicutt/logz/pkg/parser"
	"github.com/ccollicutt/logz/pkg/source"
)

// Result is the outcome of a batch run.
type Result struct {
	// Records holds the matching records in read order.
	Records []parser.Record

	// Metadata provides context about the run.
	Metadata Metadata
}

// Metadata provides context about a batch run.
type Metadata struct {
	// Sources lists the files that were read, in order.
	Sources []string

	// LinesRead counts every line read, matched or not.
	LinesRead int

	// LinesMatched counts the records kept.
	LinesMatched int

	// Truncated is set when the match limit stopped reading early.
	Truncated bool

	StartTime time.Time
	EndTime   time.Time
}

// Duration is how long the run took.
func (m Metadata) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// Ingester reads and filters log records.
type Ingester struct {
	spec       *filter.Spec
	dateFormat string
	limit      int
	logger     *zap.Logger
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithDateFormat sets the layout used for timestamp extraction.
func WithDateFormat(layout string) Option {
	return func(in *Ingester) {
		in.dateFormat = layout
	}
}

// WithLimit stops reading once n records matched. Zero means no limit.
func WithLimit(n int) Option {
	return func(in *Ingester) {
		if n > 0 {
			in.limit = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(in *Ingester) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// New creates an Ingester that keeps records accepted by spec. A nil spec
// keeps everything.
func New(spec *filter.Spec, opts ...Option) *Ingester {
	in := &Ingester{
		spec:       spec,
		dateFormat: parser.DefaultDateFormat,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run resolves paths and reads the resulting files.
// Resolution problems (*source.NotFoundError, *source.CycleError) are
// reported before any file is read. The first read fault aborts the run.
func (in *Ingester) Run(ctx context.Context, paths []string) (*Result, error) {
	files, err := source.ResolveAll(paths)
	if err != nil {
		return nil, err
	}
	in.logger.Debug("resolved sources", zap.Strings("paths", paths), zap.Int("files", len(files)))

	src := parser.NewFileSource(files, in.dateFormat)
	defer src.Close()

	result, err := in.Collect(ctx, src)
	if err != nil {
		return nil, err
	}

	result.Metadata.Sources = make([]string, len(files))
	for i, f := range files {
		result.Metadata.Sources[i] = f.Path
	}
	return result, nil
}

// Collect drains src, keeping the records that pass the filter.
func (in *Ingester) Collect(ctx context.Context, src parser.RecordSource) (*Result, error) {
	result := &Result{
		Metadata: Metadata{StartTime: time.Now()},
	}

	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ingestion aborted: %w", err)
		}

		result.Metadata.LinesRead++
		if !in.spec.Matches(rec) {
			continue
		}

		result.Records = append(result.Records, *rec)
		result.Metadata.LinesMatched++

		if in.limit > 0 && result.Metadata.LinesMatched >= in.limit {
			result.Metadata.Truncated = true
			in.logger.Debug("match limit reached", zap.Int("limit", in.limit))
			break
		}
	}

	result.Metadata.EndTime = time.Now()
	in.logger.Debug("ingestion finished",
		zap.Int("lines_read", result.Metadata.LinesRead),
		zap.Int("lines_matched", result.Metadata.LinesMatched),
		zap.Duration("duration", result.Metadata.Duration()))

	return result, nil
}

// Run is shorthand for New(spec, opts...).Run(ctx, paths).
func Run(ctx context.Context, paths []string, spec *filter.Spec, opts ...Option) (*Result, error) {
	return New(spec, opts...).Run(ctx, paths)
}
