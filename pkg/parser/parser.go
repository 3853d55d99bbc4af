package parser

import (
	"context"
	"io"

	"github.com/ccollicutt/logz/pkg/reader"
	"github.com/ccollicutt/logz/pkg/source"
)

// FileSource implements RecordSource over a list of resolved files, read
// strictly in order with at most one file open at a time.
type FileSource struct {
	files    []source.File
	enricher *Enricher

	current     *reader.LineReader
	currentName string
	currentLine int
	fileIndex   int
}

// NewFileSource creates a RecordSource that reads the given files and
// enriches each line using layout.
func NewFileSource(files []source.File, layout string) *FileSource {
	return &FileSource{
		files:     files,
		enricher:  NewEnricher(layout),
		fileIndex: -1,
	}
}

// NewReaderSource creates a RecordSource over a single already open reader,
// labelled with name (for example "stdin").
func NewReaderSource(name string, r io.Reader, layout string) *FileSource {
	return &FileSource{
		enricher:    NewEnricher(layout),
		current:     reader.NewLineReader(name, r),
		currentName: name,
	}
}

// Next returns the next enriched record.
// Returns io.EOF when all files have been exhausted. Read faults are
// returned as *reader.IOError and end iteration.
func (s *FileSource) Next(ctx context.Context) (*Record, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.current == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		line, err := s.current.Next()
		if err == nil {
			s.currentLine++
			rec := s.enricher.Enrich(s.currentName, s.currentLine, line)
			return &rec, nil
		}
		if err != io.EOF {
			_ = s.closeCurrentFile()
			return nil, err
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// CurrentPath returns the path of the file being read, if any.
func (s *FileSource) CurrentPath() string {
	if s.current == nil {
		return ""
	}
	return s.current.Path()
}

// Close releases resources.
func (s *FileSource) Close() error {
	s.fileIndex = len(s.files)
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	file := s.files[s.fileIndex]
	r, err := reader.Open(file)
	if err != nil {
		return err
	}

	s.current = r
	s.currentName = reader.Label(file.Path)
	s.currentLine = 0

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.current != nil {
		err := s.current.Close()
		s.current = nil
		return err
	}
	return nil
}
