//go:generate mockgen -source=recorder.go -destination=mocks/mock_recorder.go -package=mocks

// Package record persists benchmark timings to the append-only timing log.
package record

import (
	"fmt"
	"os"
	"sync"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
)

// TimingRecord is one line of the timing log.
type TimingRecord struct {
	Size       int
	Parallel   time.Duration
	Sequential time.Duration
}

// String renders the record as "<size> <parallel_seconds> <sequential_seconds>"
// with six decimals, without the trailing newline.
func (r TimingRecord) String() string {
	return fmt.Sprintf("%d %.6f %.6f", r.Size, r.Parallel.Seconds(), r.Sequential.Seconds())
}

// Recorder persists timing records.
type Recorder interface {
	Record(rec TimingRecord) error
}

// FileRecorder appends records to a text file, creating it when missing.
// Existing content is never truncated.
type FileRecorder struct {
	path string
	mu   sync.Mutex
}

var _ Recorder = (*FileRecorder)(nil)

// NewFileRecorder returns a recorder appending to path.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

// Path returns the file the recorder appends to.
func (f *FileRecorder) Path() string { return f.path }

// Record appends rec as a single line. Failures are reported as
// apperrors.IOError.
func (f *FileRecorder) Record(rec TimingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return apperrors.IOError{Path: f.path, Cause: err}
	}
	if _, err := fmt.Fprintln(file, rec.String()); err != nil {
		file.Close()
		return apperrors.IOError{Path: f.path, Cause: err}
	}
	if err := file.Close(); err != nil {
		return apperrors.IOError{Path: f.path, Cause: err}
	}
	return nil
}

// NopRecorder discards records. It is used when the timing log is disabled.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(TimingRecord) error { return nil }
