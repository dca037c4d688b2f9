package object

import (
	"context"
	"io"
)

// Store archives uploaded resume files before extraction.
type Store interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
