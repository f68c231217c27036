// Package datasource defines where bulk card data is read from.
package datasource

import (
	"context"
	"io"
)

// Source opens a fresh stream of the bulk export.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
