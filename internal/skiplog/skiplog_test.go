package skiplog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open for read: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	return rows
}

// TestCreate_CreatesDirFileAndHeader verifies that Create makes missing
// parent directories and writes the header row.
func TestCreate_CreatesDirFileAndHeader(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "skipped", "run.csv")
	l, err := Create(target)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readRows(t, target)
	if len(rows) != 1 || !reflect.DeepEqual(rows[0], Header) {
		t.Fatalf("rows = %#v, want only the header", rows)
	}
}

// TestAdd_WritesRowsAndCounts checks row contents, CSV quoting of names with
// commas and quotes, and the per-reason tally.
func TestAdd_WritesRowsAndCounts(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "skipped.csv")
	l, err := Create(target)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	inputs := []struct {
		reason, id, name string
		record           int
	}{
		{"no recognised game", "a1", `Borrowing 100,000 Arrows`, 2},
		{"no recognised legal format", "b2", `"Ach! Hans, Run!"`, 3},
		{"no recognised game", "c3", "Urza's Tower", 5},
	}
	for _, in := range inputs {
		l.Add(in.reason, in.record, in.id, in.name)
	}
	counts := l.Counts()
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows := readRows(t, target)
	if len(rows) != 1+len(inputs) {
		t.Fatalf("want %d rows, got %d: %#v", 1+len(inputs), len(rows), rows)
	}
	for i, in := range inputs {
		want := []string{in.reason, fmt.Sprint(in.record), in.id, in.name}
		if !reflect.DeepEqual(rows[i+1], want) {
			t.Fatalf("row %d = %#v, want %#v", i+1, rows[i+1], want)
		}
	}
	if counts["no recognised game"] != 2 || counts["no recognised legal format"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestAdd_Concurrent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l, err := New(&buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Add("r", w*100+i, "id", "name")
			}
		}(w)
	}
	wg.Wait()
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(rows) != 801 || l.Counts()["r"] != 800 {
		t.Fatalf("rows = %d, count = %d", len(rows), l.Counts()["r"])
	}
}

var errBroken = errors.New("broken pipe")

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errBroken }

func TestClose_ReportsWriteError(t *testing.T) {
	t.Parallel()

	l, err := New(errWriter{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Add("r", 1, "id", "name")
	if err := l.Close(); !errors.Is(err, errBroken) {
		t.Fatalf("Close = %v, want %v", err, errBroken)
	}
}

func TestCreate_Errors(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Create(filepath.Join(blocker, "skipped.csv")); err == nil {
		t.Fatal("Create below a regular file should fail")
	}
}
