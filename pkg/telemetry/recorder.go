package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder appends FlockStats rows to a CSV stream.
// A nil *Recorder is valid and records nothing (output disabled).
type Recorder struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

// NewRecorder writes rows to out. The caller keeps ownership of out.
func NewRecorder(out io.Writer) *Recorder {
	return &Recorder{out: out}
}

// CreateFile creates (or truncates) a CSV file at path and records into it.
// Returns nil if path is empty.
func CreateFile(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &Recorder{out: f, closer: f}, nil
}

// Write appends one row, preceded by the header on the first call.
func (r *Recorder) Write(s FlockStats) error {
	if r == nil {
		return nil
	}

	records := []FlockStats{s}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	r.rows++
	return nil
}

// Rows is the number of rows written so far.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// Close closes the underlying file when the recorder owns one.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
