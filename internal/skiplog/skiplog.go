// Package skiplog writes a CSV report of the records the converter left out
// of the script, one row per record, with a per-reason tally.
package skiplog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Header is the first row of every report.
var Header = []string{"reason", "record", "printing_id", "name"}

// Log is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	reasons map[string]int
	w       *csv.Writer
	c       io.Closer
	err     error
}

// New writes the header to w and returns a Log appending to it.
func New(w io.Writer) (*Log, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("skiplog: write header: %w", err)
	}
	return &Log{reasons: make(map[string]int), w: cw}, nil
}

// Create creates path, and any missing parent directories, and returns a
// Log writing to it. Close flushes and closes the file.
func Create(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("skiplog: create dir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("skiplog: open %s: %w", path, err)
	}
	l, err := New(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	l.c = f
	return l, nil
}

// Add records one skipped record. The first write error is kept and
// reported by Close; later rows are still counted.
func (l *Log) Add(reason string, record int, printingID, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.reasons[reason]++
	if l.err != nil {
		return
	}
	if err := l.w.Write([]string{reason, strconv.Itoa(record), printingID, name}); err != nil {
		l.err = fmt.Errorf("skiplog: write row: %w", err)
	}
}

// Counts returns a copy of the per-reason tally.
func (l *Log) Counts() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.reasons))
	for k, v := range l.reasons {
		out[k] = v
	}
	return out
}

// Close flushes buffered rows and closes the underlying file, if Create
// opened one. It returns the first error seen since New.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.w.Flush()
	if l.err == nil {
		if err := l.w.Error(); err != nil {
			l.err = fmt.Errorf("skiplog: flush: %w", err)
		}
	}
	if l.c != nil {
		if err := l.c.Close(); err != nil && l.err == nil {
			l.err = fmt.Errorf("skiplog: close: %w", err)
		}
		l.c = nil
	}
	return l.err
}
