package repository

import (
	"context"
	"io"
)

// ImageStore uploads bytes and returns a URL clients can load.
type ImageStore interface {
	Upload(ctx context.Context, r io.Reader, contentType, path string) (string, error)
}
