package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/multierr"
)

var ErrWriterClosed = errors.New("subject writer closed")

// SubjectWriter appends records for one subject to one file. Open, Append
// and Close must only be called from the worker goroutine; the counters
// may be read from anywhere.
type SubjectWriter struct {
	path     string
	syncEach bool
	file     *os.File
	closed   bool

	records atomic.Int64
	errors  atomic.Int64
}

// NewSubjectWriter creates an unopened writer for path. With syncEach set
// every Append is forced to stable storage before returning.
func NewSubjectWriter(path string, syncEach bool) *SubjectWriter {
	return &SubjectWriter{
		path:     path,
		syncEach: syncEach,
	}
}

// Path returns the output file path.
func (sw *SubjectWriter) Path() string {
	return sw.path
}

// Open creates the file if absent and opens it for appending. Existing
// content is never truncated. The parent directory is created if missing.
func (sw *SubjectWriter) Open() error {
	if sw.closed {
		return ErrWriterClosed
	}
	if sw.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(sw.path), 0755); err != nil {
		sw.errors.Add(1)
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.OpenFile(sw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		sw.errors.Add(1)
		return fmt.Errorf("failed to open %s: %w", sw.path, err)
	}
	sw.file = file

	return nil
}

// Append writes line plus a newline. Without an open file it is a no-op.
// A failed write releases the file, later appends are then no-ops too.
func (sw *SubjectWriter) Append(line string) error {
	if sw.file == nil {
		return nil
	}

	_, err := sw.file.WriteString(line + "\n")
	if err == nil && sw.syncEach {
		err = sw.file.Sync()
	}
	if err != nil {
		sw.errors.Add(1)
		sw.file.Close()
		sw.file = nil
		return fmt.Errorf("failed to append to %s: %w", sw.path, err)
	}

	sw.records.Add(1)
	return nil
}

// Close flushes and releases the file. Calling it again is a no-op; a
// closed writer is never reopened.
func (sw *SubjectWriter) Close() error {
	if sw.closed {
		return nil
	}
	sw.closed = true

	if sw.file == nil {
		return nil
	}

	err := multierr.Append(sw.file.Sync(), sw.file.Close())
	sw.file = nil
	if err != nil {
		sw.errors.Add(1)
		return fmt.Errorf("failed to close %s: %w", sw.path, err)
	}
	return nil
}

// IsOpen reports whether the writer currently holds an open file. Like
// Append it is only safe on the worker goroutine or after a Worker.Flush.
func (sw *SubjectWriter) IsOpen() bool {
	return sw.file != nil
}

// Records returns the number of records appended.
func (sw *SubjectWriter) Records() int64 {
	return sw.records.Load()
}

// Errors returns the number of failed I/O operations.
func (sw *SubjectWriter) Errors() int64 {
	return sw.errors.Load()
}
