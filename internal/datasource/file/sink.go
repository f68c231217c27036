package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Create opens path for writing, creating missing parent directories and
// truncating an existing file. The path "-" selects standard output.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdin {
		return nopWriteCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
