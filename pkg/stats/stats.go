// Package stats summarizes a filtered record stream.
package stats

import (
	"sort"
	"time"

	"github.com/ccollicutt/logz/pkg/parser"
)

// NoLevel is the ByLevel key for records without a detected level.
const NoLevel = "NONE"

// Summary aggregates a set of records.
type Summary struct {
	Total         int            `json:"total"`
	ByLevel       map[string]int `json:"by_level"`
	BySource      map[string]int `json:"by_source"`
	WithTimestamp int            `json:"with_timestamp"`
	First         *time.Time     `json:"first,omitempty"`
	Last          *time.Time     `json:"last,omitempty"`
}

// Collect builds a Summary of records. First and Last are the earliest and
// latest timestamps seen, regardless of record order.
func Collect(records []parser.Record) *Summary {
	s := &Summary{
		ByLevel:  make(map[string]int),
		BySource: make(map[string]int),
	}

	for i := range records {
		rec := &records[i]
		s.Total++

		level := NoLevel
		if rec.HasLevel() {
			level = string(rec.Level)
		}
		s.ByLevel[level]++
		s.BySource[rec.Source]++

		if !rec.HasTimestamp() {
			continue
		}
		s.WithTimestamp++
		ts := *rec.Timestamp
		if s.First == nil || ts.Before(*s.First) {
			s.First = &ts
		}
		if s.Last == nil || ts.After(*s.Last) {
			last := ts
			s.Last = &last
		}
	}

	return s
}

// Span is the time between First and Last, or zero when unknown.
func (s *Summary) Span() time.Duration {
	if s.First == nil || s.Last == nil {
		return 0
	}
	return s.Last.Sub(*s.First)
}

// LevelCount is one row of the level breakdown.
type LevelCount struct {
	Level string
	Count int
}

// Levels returns the level breakdown in severity order, with NONE last.
// Levels with no records are omitted.
func (s *Summary) Levels() []LevelCount {
	var out []LevelCount
	for _, lvl := range parser.Levels() {
		if n := s.ByLevel[string(lvl)]; n > 0 {
			out = append(out, LevelCount{Level: string(lvl), Count: n})
		}
	}
	if n := s.ByLevel[NoLevel]; n > 0 {
		out = append(out, LevelCount{Level: NoLevel, Count: n})
	}
	return out
}

// Sources returns the source labels sorted by name.
func (s *Summary) Sources() []string {
	names := make([]string, 0, len(s.BySource))
	for name := range s.BySource {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
