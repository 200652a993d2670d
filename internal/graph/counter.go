package graph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrCounterHandoff reports a side-car counter that exists but cannot be
	// read or consumed. Continuing would risk a duplicate identity range.
	ErrCounterHandoff = errors.New("identity counter hand-off failed")

	// ErrCounterMissing reports existing tables without a side-car counter.
	ErrCounterMissing = errors.New("tables exist but identity counter is missing")
)

// consumeCounter reads the side-car counter in dir and deletes it. found is
// false when there is no side-car.
func consumeCounter(dir string) (v uint64, found bool, err error) {
	path := filepath.Join(dir, CounterFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, true, fmt.Errorf("%w: read %s: %v", ErrCounterHandoff, path, err)
	}

	v, err = strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%w: parse %s: %v", ErrCounterHandoff, path, err)
	}

	if err := os.Remove(path); err != nil {
		return 0, true, fmt.Errorf("%w: remove %s: %v", ErrCounterHandoff, path, err)
	}
	return v, true, nil
}

// persistCounter writes v to the side-car counter in dir.
func persistCounter(dir string, v uint64) error {
	path := filepath.Join(dir, CounterFile)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write counter: %w", err)
	}
	if _, err := f.WriteString(strconv.FormatUint(v, 10)); err != nil {
		f.Close()
		return fmt.Errorf("write counter: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync counter: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close counter: %w", err)
	}
	return nil
}
