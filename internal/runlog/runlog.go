// Package runlog persists one JSON record per pipeline run so invocations
// can be replayed or audited later.
package runlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry describes one completed run.
type Entry struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	Input           string    `json:"input"`
	OutputDir       string    `json:"output_dir"`
	MoveFiles       bool      `json:"move_files"`
	VendorOverride  string    `json:"vendor_override,omitempty"`
	MaxConcurrent   int       `json:"max_concurrent"`
	FilesProcessed  int       `json:"files_processed"`
	Succeeded       int       `json:"succeeded"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// Journal appends run entries to an on-disk JSONL file. A nil journal (or
// one with an empty path) swallows appends, so callers need no enabled
// check.
type Journal struct {
	path string
}

// NewJournal creates a journal writing to path. An empty path disables it.
func NewJournal(path string) *Journal {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	return &Journal{path: trimmed}
}

// Append writes the entry as one JSON line.
func (j *Journal) Append(e Entry) error {
	if j == nil {
		return nil
	}
	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create run log directory: %w", err)
		}
	}
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open run log %s: %w", j.path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(e); err != nil {
		return fmt.Errorf("write run log entry: %w", err)
	}
	return nil
}

// Read returns all entries in the journal, oldest first.
func (j *Journal) Read() ([]Entry, error) {
	if j == nil {
		return nil, nil
	}
	f, err := os.Open(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open run log %s: %w", j.path, err)
	}
	defer f.Close()

	var entries []Entry
	dec := json.NewDecoder(f)
	for {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return entries, fmt.Errorf("decode run log %s: %w", j.path, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
