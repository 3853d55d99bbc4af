// Package output renders filtered records and their statistics.
package output

import (
	"time"

	"github.com/ccollicutt/logz/pkg/filter"
	"github.com/ccollicutt/logz/pkg/ingest"
	"github.com/ccollicutt/logz/pkg/parser"
	"github.com/ccollicutt/logz/pkg/stats"
)

// Report is the output of an analyze run.
type Report struct {
	// Records holds the matching records in read order.
	Records []parser.Record `json:"records"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// StatsReport is the output of a stats run.
type StatsReport struct {
	Summary  *stats.Summary `json:"summary"`
	Metadata Metadata       `json:"metadata"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Sources lists the log files that were read.
	Sources []string `json:"sources"`

	// Filter describes the active filter.
	Filter string `json:"filter"`

	LinesRead    int  `json:"lines_read"`
	LinesMatched int  `json:"lines_matched"`
	Truncated    bool `json:"truncated,omitempty"`

	// AnalyzedAt is when the run finished.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration_ns"`
}

func newMetadata(result *ingest.Result, spec *filter.Spec) Metadata {
	return Metadata{
		Sources:      result.Metadata.Sources,
		Filter:       spec.String(),
		LinesRead:    result.Metadata.LinesRead,
		LinesMatched: result.Metadata.LinesMatched,
		Truncated:    result.Metadata.Truncated,
		AnalyzedAt:   result.Metadata.EndTime,
		Duration:     result.Metadata.Duration(),
	}
}

// NewReport creates a Report from an ingest result.
func NewReport(result *ingest.Result, spec *filter.Spec) *Report {
	records := result.Records
	if records == nil {
		records = []parser.Record{}
	}
	return &Report{
		Records:  records,
		Metadata: newMetadata(result, spec),
	}
}

// NewStatsReport summarizes an ingest result.
func NewStatsReport(result *ingest.Result, spec *filter.Spec) *StatsReport {
	return &StatsReport{
		Summary:  stats.Collect(result.Records),
		Metadata: newMetadata(result, spec),
	}
}

// HasRecords returns true if any record matched.
func (r *Report) HasRecords() bool {
	return len(r.Records) > 0
}
