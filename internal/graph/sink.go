package graph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
)

// Sink appends tab-separated records to one table file.
type Sink struct {
	path string
	f    *os.File
	w    *csv.Writer
	rows int
}

// OpenSink opens the table at path for appending. When create is true the
// file is truncated and header is written as its first record.
func OpenSink(path string, header []string, create bool) (*Sink, error) {
	flags := os.O_WRONLY | os.O_APPEND
	if create {
		flags |= os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	s := &Sink{path: path, f: f, w: w}
	if create {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header %s: %w", path, err)
		}
	}
	return s, nil
}

// Write appends one record.
func (s *Sink) Write(fields []string) error {
	if s.w == nil {
		return fmt.Errorf("write %s: sink closed", s.path)
	}
	if err := s.w.Write(fields); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.rows++
	return nil
}

// Flush pushes buffered records to the file.
func (s *Sink) Flush() error {
	if s.w == nil {
		return nil
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}
	return nil
}

// Rows returns the number of records written since the sink was opened,
// excluding the header.
func (s *Sink) Rows() int {
	return s.rows
}

// Path returns the table file path.
func (s *Sink) Path() string {
	return s.path
}

// Close flushes and closes the file. It is safe to call more than once.
func (s *Sink) Close() error {
	if s.w == nil {
		return nil
	}
	flushErr := s.Flush()
	closeErr := s.f.Close()
	s.w = nil
	s.f = nil
	if closeErr != nil {
		closeErr = fmt.Errorf("close %s: %w", s.path, closeErr)
	}
	return errors.Join(flushErr, closeErr)
}
