// Package file implements local filesystem input and output for the
// converter.
package file

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Local is a filesystem data source that opens a bulk export from disk.
type Local struct{ path string }

// NewLocal returns a Local bound to path; Stdin selects standard input.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the configured path.
func (l *Local) Path() string { return l.path }

// Open opens the configured path for reading.
//
// Behavior:
//   - A context that is already done returns its error without touching the
//     filesystem.
//   - Stdin is returned wrapped so that closing it is a no-op.
//   - Regular files get a sequential read-ahead hint where the platform
//     supports one; a failed hint is logged and otherwise ignored.
//   - Filesystem errors are wrapped with the path and still match
//     errors.Is(err, os.ErrNotExist) and friends.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if l.path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	if err := adviseSequential(f); err != nil {
		log.Printf("file: read-ahead hint for %s: %v", l.path, err)
	}
	return f, nil
}
