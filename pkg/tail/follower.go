// Package tail follows a single growing log file, emitting enriched and
// filtered records as lines are appended.
package tail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/logz/pkg/filter"
	"github.com/ccollicutt/logz/pkg/parser"
	"github.com/ccollicutt/logz/pkg/reader"
)

// DefaultInterval is the poll interval in seconds.
const DefaultInterval = 0.5

const readChunk = 64 * 1024

// ValidInterval reports whether seconds is a finite poll interval that is
// at least one nanosecond long.
func ValidInterval(seconds float64) bool {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return false
	}
	if seconds > float64(math.MaxInt64)/float64(time.Second) {
		return false
	}
	return toDuration(seconds) > 0
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// State is the lifecycle stage of a Follower.
type State int

const (
	StateIdle State = iota
	StateSeeking
	StateFollowing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeeking:
		return "seeking"
	case StateFollowing:
		return "following"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrClosed is returned when a closed Follower is used.
var ErrClosed = errors.New("follower is closed")

// Follower tails one file. Apart from State, its methods are not safe for
// concurrent use.
type Follower struct {
	path      string
	label     string
	interval  float64
	fromStart bool
	notify    bool
	spec      *filter.Spec
	enricher  *parser.Enricher
	logger    *zap.Logger
	onError   func(error) error

	state   atomic.Int32
	file    *os.File
	info    os.FileInfo
	offset  int64
	partial []byte
	line    int
}

// Option configures a Follower.
type Option func(*Follower)

// WithInterval sets the poll interval in seconds. It must be positive.
func WithInterval(seconds float64) Option {
	return func(f *Follower) {
		f.interval = seconds
	}
}

// WithFromStart emits the existing content of the file before following.
func WithFromStart(fromStart bool) Option {
	return func(f *Follower) {
		f.fromStart = fromStart
	}
}

// WithFilter drops records that do not pass the filter.
func WithFilter(spec *filter.Spec) Option {
	return func(f *Follower) {
		f.spec = spec
	}
}

// WithDateFormat sets the layout used for timestamp extraction.
func WithDateFormat(layout string) Option {
	return func(f *Follower) {
		f.enricher = parser.NewEnricher(layout)
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Follower) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithNotify wakes the poll loop early on filesystem events for the file.
func WithNotify(notify bool) Option {
	return func(f *Follower) {
		f.notify = notify
	}
}

// WithErrorHandler decides what happens when a poll fails inside Follow.
// Returning nil retries on the next cycle; returning an error ends Follow
// with it. By default poll errors end Follow.
func WithErrorHandler(fn func(error) error) Option {
	return func(f *Follower) {
		if fn != nil {
			f.onError = fn
		}
	}
}

// New creates an idle Follower for path.
func New(path string, opts ...Option) (*Follower, error) {
	f := &Follower{
		path:     path,
		label:    reader.Label(path),
		interval: DefaultInterval,
		enricher: parser.NewEnricher(""),
		logger:   zap.NewNop(),
		onError:  func(err error) error { return err },
	}
	for _, opt := range opts {
		opt(f)
	}

	if !ValidInterval(f.interval) {
		return nil, &filter.ConfigError{
			Field: "interval",
			Value: fmt.Sprint(f.interval),
			Err:   errors.New("must be a finite number of seconds greater than zero"),
		}
	}

	return f, nil
}

// Path returns the followed path.
func (f *Follower) Path() string {
	return f.path
}

// State returns the current lifecycle state.
func (f *Follower) State() State {
	return State(f.state.Load())
}

func (f *Follower) setState(s State) {
	f.state.Store(int32(s))
}

// Offset returns the number of bytes consumed from the current file,
// including any buffered partial line.
func (f *Follower) Offset() int64 {
	return f.offset
}

// Interval returns the poll interval.
func (f *Follower) Interval() time.Duration {
	return toDuration(f.interval)
}

// Start opens the file and positions the read offset: at the end of the
// file, or at the beginning when following from the start. Skipped lines
// are counted so that record line numbers match the file.
func (f *Follower) Start() error {
	switch f.State() {
	case StateClosed:
		return ErrClosed
	case StateFollowing:
		return nil
	}

	file, info, err := f.open()
	if err != nil {
		return err
	}
	f.file = file
	f.info = info
	f.setState(StateSeeking)

	f.reset()
	if !f.fromStart {
		skipped, err := f.countLines(info.Size())
		if err != nil {
			file.Close()
			f.file = nil
			f.setState(StateIdle)
			return err
		}
		f.offset = info.Size()
		f.line = skipped
	}
	f.setState(StateFollowing)

	f.logger.Debug("following file",
		zap.String("path", f.path),
		zap.Int64("offset", f.offset),
		zap.Bool("from_start", f.fromStart))
	return nil
}

// Poll checks the file once and returns the complete lines appended since
// the previous poll that pass the filter. When the file shrank or the path
// now names a different file, the session restarts from offset zero and the
// poll returns nothing; the new content is picked up by the next poll.
// Errors are *reader.IOError and leave the session usable; records read
// before a failed read are still returned.
func (f *Follower) Poll() ([]parser.Record, error) {
	switch f.State() {
	case StateClosed:
		return nil, ErrClosed
	case StateIdle:
		if err := f.Start(); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return nil, &reader.IOError{Path: f.path, Op: "stat", Err: err}
	}

	if !os.SameFile(info, f.info) {
		f.logger.Info("file replaced, reopening", zap.String("path", f.path))
		if err := f.reopen(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	f.info = info

	size := info.Size()
	if size < f.offset {
		f.logger.Info("file truncated, restarting from the beginning",
			zap.String("path", f.path),
			zap.Int64("size", size),
			zap.Int64("offset", f.offset))
		f.reset()
		return nil, nil
	}
	if size == f.offset {
		return nil, nil
	}

	var records []parser.Record
	buf := make([]byte, min(size-f.offset, readChunk))
	for f.offset < size {
		want := min(size-f.offset, int64(len(buf)))
		n, err := f.file.ReadAt(buf[:want], f.offset)
		f.offset += int64(n)
		records = append(records, f.consume(buf[:n])...)
		if err != nil && !errors.Is(err, io.EOF) {
			return records, &reader.IOError{Path: f.path, Op: "read", Err: err}
		}
		if n == 0 {
			break
		}
	}

	return records, nil
}

// countLines returns the number of newlines in the first size bytes of the
// held file.
func (f *Follower) countLines(size int64) (int, error) {
	buf := make([]byte, min(size, readChunk))
	count := 0
	for off := int64(0); off < size; {
		want := min(size-off, int64(len(buf)))
		n, err := f.file.ReadAt(buf[:want], off)
		count += bytes.Count(buf[:n], []byte{'\n'})
		off += int64(n)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, &reader.IOError{Path: f.path, Op: "read", Err: err}
		}
		if n == 0 {
			break
		}
	}
	return count, nil
}

// consume appends data to the partial buffer and returns the records for
// every complete line in it.
func (f *Follower) consume(data []byte) []parser.Record {
	f.partial = append(f.partial, data...)

	end := bytes.LastIndexByte(f.partial, '\n')
	if end < 0 {
		return nil
	}

	complete := f.partial[:end]
	rest := f.partial[end+1:]

	var records []parser.Record
	for _, raw := range strings.Split(string(complete), "\n") {
		f.line++
		rec := f.enricher.Enrich(f.label, f.line, strings.TrimSpace(raw))
		if f.spec.Matches(&rec) {
			records = append(records, rec)
		}
	}

	f.partial = append([]byte(nil), rest...)
	return records
}

// Follow polls until ctx is cancelled, passing each record to emit in file
// order. It sleeps for the interval before every poll. Cancellation closes
// the Follower and returns nil. An error from emit, or a poll error the
// error handler does not absorb, ends Follow with that error.
func (f *Follower) Follow(ctx context.Context, emit func(parser.Record) error) error {
	if err := f.Start(); err != nil {
		return err
	}
	defer f.Close()

	var events <-chan string
	if f.notify {
		w, err := newWakeup(f.path, f.logger)
		if err != nil {
			f.logger.Warn("file notifications unavailable, polling only",
				zap.String("path", f.path), zap.Error(err))
		} else {
			defer w.Close()
			events = w.events(ctx)
		}
	}

	timer := time.NewTimer(f.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Debug("follow cancelled", zap.String("path", f.path))
			return nil
		case <-timer.C:
		case <-events:
			timer.Stop()
		}

		records, err := f.Poll()
		if err != nil {
			if herr := f.onError(err); herr != nil {
				return herr
			}
			f.logger.Warn("poll failed, retrying", zap.String("path", f.path), zap.Error(err))
		}

		for _, rec := range records {
			if err := emit(rec); err != nil {
				return err
			}
		}

		timer.Reset(f.Interval())
	}
}

// Close releases the file handle. It is safe to call more than once.
func (f *Follower) Close() error {
	if f.State() == StateClosed {
		return nil
	}
	f.setState(StateClosed)
	f.partial = nil
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

func (f *Follower) open() (*os.File, os.FileInfo, error) {
	file, err := os.Open(f.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, nil, &reader.IOError{Path: f.path, Op: "open", Err: err}
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, &reader.IOError{Path: f.path, Op: "stat", Err: err}
	}
	return file, info, nil
}

// reopen swaps the held handle for one on the file now at the path. The old
// handle is kept if the new one cannot be opened.
func (f *Follower) reopen() error {
	file, info, err := f.open()
	if err != nil {
		return err
	}
	if f.file != nil {
		_ = f.file.Close()
	}
	f.file = file
	f.info = info
	f.reset()
	return nil
}

func (f *Follower) reset() {
	f.offset = 0
	f.partial = nil
	f.line = 0
}
