// Package store persists completed survey records as rows of a CSV file.
package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/peanut-survey/peanut-survey/internal/survey"
)

// TimestampLayout is the format of the Timestamp column.
const TimestampLayout = "2006-01-02 15:04:05 -0700"

var (
	// ErrAlreadyExists is returned when creating a data file over an existing path.
	ErrAlreadyExists = errors.New("file already exists")
	// ErrHeaderMismatch is returned when an existing data file was written
	// for a different survey definition.
	ErrHeaderMismatch = errors.New("header does not match survey definition")
)

// IOError reports a failed file operation on the data file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// CreateFile creates path and writes the header row. It fails with
// ErrAlreadyExists if path exists; existing data is never truncated.
func CreateFile(path string, columns []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //nolint:gosec // path comes from the command line
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
		}
		return &IOError{Op: "create", Path: path, Err: err}
	}

	if err := writeRow(f, columns); err != nil {
		_ = f.Close()
		return &IOError{Op: "write header", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// writeRow writes one CSV row with minimal quoting and syncs it to disk.
func writeRow(f *os.File, row []string) error {
	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for save events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store appends records to one data file. It is owned by a single session
// and is not safe for concurrent use.
type Store struct {
	path   string
	def    *survey.Definition
	now    func() time.Time
	logger *zap.Logger
}

// New returns a Store for an existing data file.
func New(path string, def *survey.Definition, opts ...Option) *Store {
	s := &Store{
		path:   path,
		def:    def,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates the data file with the definition header and returns a
// Store for it.
func Create(path string, def *survey.Definition, opts ...Option) (*Store, error) {
	if err := CreateFile(path, def.Columns()); err != nil {
		return nil, err
	}
	s := New(path, def, opts...)
	s.logger.Info("created data file", zap.String("path", path), zap.Strings("columns", def.Columns()))
	return s, nil
}

// Open returns a Store for an existing data file whose header matches def.
func Open(path string, def *survey.Definition, opts ...Option) (*Store, error) {
	header, err := ReadHeader(path)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(header, def.Columns()) {
		return nil, fmt.Errorf("%s: %w: got %q, want %q", path, ErrHeaderMismatch, header, def.Columns())
	}
	s := New(path, def, opts...)
	s.logger.Info("opened data file", zap.String("path", path))
	return s, nil
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Append stamps rec with the current time and writes it as one row.
// Incomplete records are refused. Write failures are returned as *IOError.
func (s *Store) Append(ctx context.Context, rec *survey.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.def.Complete(rec); err != nil {
		return fmt.Errorf("refusing incomplete record: %w", err)
	}

	rec.Timestamp = s.now()
	row := s.def.Row(rec, TimestampLayout)

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0) //nolint:gosec // path comes from the command line
	if err != nil {
		s.logger.Error("open data file failed", zap.Stringer("record", rec.ID), zap.Error(err))
		return &IOError{Op: "open", Path: s.path, Err: err}
	}
	if err := writeRow(f, row); err != nil {
		_ = f.Close()
		s.logger.Error("append failed", zap.Stringer("record", rec.ID), zap.Error(err))
		return &IOError{Op: "append", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: s.path, Err: err}
	}

	s.logger.Info("record saved",
		zap.Stringer("record", rec.ID),
		zap.String("timestamp", row[0]))
	return nil
}
