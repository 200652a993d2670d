// Package compdb reads and writes JSON compilation databases
// (compile_commands.json).
package compdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the conventional name of a compilation database.
const FileName = "compile_commands.json"

// Entry is one compile command. Either Command or Arguments is set.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// Path returns the absolute, cleaned path of the entry's source file.
func (e Entry) Path() string {
	if filepath.IsAbs(e.File) {
		return filepath.Clean(e.File)
	}
	return filepath.Join(e.Directory, e.File)
}

// Load reads a compilation database. path may name the JSON file or the
// build directory that contains it.
func Load(path string) ([]Entry, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, FileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compdb: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("compdb: parse %s: %w", path, err)
	}
	for i, e := range entries {
		if e.File == "" {
			return nil, fmt.Errorf("compdb: %s: entry %d has no file", path, i)
		}
	}
	return entries, nil
}

// Unique keeps the first entry for each source file, in their original
// order. A file compiled in several configurations is exported once.
func Unique(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		p := e.Path()
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, e)
	}
	return out
}

// Files returns the distinct source paths of entries in order.
func Files(entries []Entry) []string {
	u := Unique(entries)
	files := make([]string, len(u))
	for i, e := range u {
		files[i] = e.Path()
	}
	return files
}

// Write stores entries as an indented JSON array.
func Write(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("compdb: encode: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("compdb: %w", err)
	}
	return nil
}
