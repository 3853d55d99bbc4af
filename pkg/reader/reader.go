// Package reader streams trimmed text lines out of plain or gzip-compressed
// log files.
package reader

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccollicutt/logz/pkg/source"
)

// IOError reports a failure opening, reading or decompressing a file.
type IOError struct {
	Path string
	Op   string // open, read, stat, ...
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Label returns the source label attached to every record read from path.
func Label(path string) string {
	if path == "" {
		return "unknown"
	}
	return filepath.Base(path)
}

// LineReader yields the lines of one file in a single forward pass.
// It is not safe for concurrent use.
type LineReader struct {
	path string
	gz   bool

	closer io.Closer
	raw    io.Reader
	br     *bufio.Reader
	zr     *gzip.Reader

	err error
}

// Open opens file for line reading. Only opening the file itself can fail
// here; decompression problems surface from Next.
func Open(file source.File) (*LineReader, error) {
	f, err := os.Open(file.Path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, &IOError{Path: file.Path, Op: "open", Err: err}
	}

	return &LineReader{
		path:   file.Path,
		gz:     file.Gzip,
		closer: f,
		raw:    f,
	}, nil
}

// NewLineReader reads lines from an already open reader, such as stdin.
// The caller keeps ownership of r.
func NewLineReader(name string, r io.Reader) *LineReader {
	return &LineReader{
		path: name,
		raw:  r,
	}
}

// Path returns the path the reader was opened with.
func (r *LineReader) Path() string {
	return r.path
}

// Next returns the next line with surrounding whitespace and the line
// terminator removed. It returns io.EOF when the input is exhausted and an
// *IOError on read or decompression faults. Once an error is returned every
// subsequent call returns it again.
func (r *LineReader) Next() (string, error) {
	if r.err != nil {
		return "", r.err
	}

	if r.br == nil {
		if err := r.init(); err != nil {
			r.err = err
			return "", err
		}
	}

	line, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				r.err = io.EOF
				return "", io.EOF
			}
			// Final fragment without a terminator.
			r.err = io.EOF
			return strings.TrimSpace(line), nil
		}
		op := "read"
		if r.gz {
			op = "decompress"
		}
		r.err = &IOError{Path: r.path, Op: op, Err: err}
		return "", r.err
	}

	return strings.TrimSpace(line), nil
}

// Close releases the decompressor and the underlying file. It is safe to
// call more than once.
func (r *LineReader) Close() error {
	var firstErr error
	if r.zr != nil {
		if err := r.zr.Close(); err != nil {
			firstErr = err
		}
		r.zr = nil
	}
	if r.closer != nil {
		if err := r.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.closer = nil
	}
	if r.err == nil {
		r.err = io.EOF
	}
	return firstErr
}

func (r *LineReader) init() error {
	if !r.gz {
		r.br = bufio.NewReaderSize(r.raw, 64*1024)
		return nil
	}

	zr, err := gzip.NewReader(bufio.NewReader(r.raw))
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Zero-length .gz file: treat as empty.
			r.br = bufio.NewReader(strings.NewReader(""))
			return nil
		}
		return &IOError{Path: r.path, Op: "decompress", Err: err}
	}
	r.zr = zr
	r.br = bufio.NewReaderSize(zr, 64*1024)
	return nil
}
