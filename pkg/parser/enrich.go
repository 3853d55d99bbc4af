package parser

// Enricher turns raw lines into Records using one date layout.
type Enricher struct {
	layout string
}

// NewEnricher creates an Enricher. An empty layout selects DefaultDateFormat.
func NewEnricher(layout string) *Enricher {
	if layout == "" {
		layout = DefaultDateFormat
	}
	return &Enricher{layout: layout}
}

// Layout returns the date layout in use.
func (e *Enricher) Layout() string {
	return e.layout
}

// Enrich builds the Record for an already trimmed line.
func (e *Enricher) Enrich(source string, line int, raw string) Record {
	rec := Record{
		Source: source,
		Line:   line,
		Raw:    raw,
	}
	if ts, ok := ExtractTimestamp(raw, e.layout); ok {
		rec.Timestamp = &ts
	}
	if lvl, ok := DetectLevel(raw); ok {
		rec.Level = lvl
	}
	return rec
}
