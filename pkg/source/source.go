// Package source resolves user-supplied paths into the ordered list of
// concrete log files to read.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is a resolved log file.
type File struct {
	// Path is the file path as resolved from the user input.
	Path string

	// Gzip is true when the file has a .gz extension (case-insensitive).
	Gzip bool
}

// NewFile builds a File, deciding compression from the extension.
func NewFile(path string) File {
	return File{
		Path: path,
		Gzip: strings.EqualFold(filepath.Ext(path), ".gz"),
	}
}

// NotFoundError reports a path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

// CycleError reports a directory that was reached twice during traversal,
// typically through a symbolic link pointing at one of its ancestors.
type CycleError struct {
	Path string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("directory cycle detected at %s", e.Path)
}

// Resolve turns path into the ordered list of files to read.
//
// A regular file resolves to itself. A directory is walked depth-first with
// the entries of each level sorted by name, so the result is stable across
// platforms. An empty directory resolves to an empty list.
func Resolve(path string) ([]File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		return []File{NewFile(path)}, nil
	}

	w := &walker{}
	if err := w.walk(path, info); err != nil {
		return nil, err
	}
	return w.files, nil
}

// ResolveAll expands each pattern and resolves every resulting path in order.
// A file reachable through more than one pattern is only returned once.
func ResolveAll(patterns []string) ([]File, error) {
	paths, err := ExpandGlobs(patterns)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var result []File
	for _, p := range paths {
		files, err := Resolve(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if seen[f.Path] {
				continue
			}
			seen[f.Path] = true
			result = append(result, f)
		}
	}
	return result, nil
}

// walker performs the recursive directory traversal, remembering every
// directory it has entered.
type walker struct {
	visited []os.FileInfo
	files   []File
}

func (w *walker) walk(dir string, info os.FileInfo) error {
	for _, v := range w.visited {
		if os.SameFile(v, info) {
			return &CycleError{Path: dir}
		}
	}
	w.visited = append(w.visited, info)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		// Stat follows symlinks so linked files and directories are included.
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Dangling symlink.
				continue
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}

		switch {
		case info.IsDir():
			if err := w.walk(path, info); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			w.files = append(w.files, NewFile(path))
		}
	}
	return nil
}
