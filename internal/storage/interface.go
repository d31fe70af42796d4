package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidKey = errors.New("invalid storage key")

// StorageInterface defines the backend used to archive generated documents.
// Keys are slash-separated relative paths such as "factures/2024/RES-1.pdf".
type StorageInterface interface {
	// Save writes the content of reader under key, replacing any previous file.
	Save(ctx context.Context, key string, reader io.Reader) error

	// Open returns a reader for key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether key exists and returns its size.
	Exists(ctx context.Context, key string) (bool, int64, error)

	Delete(ctx context.Context, key string) error

	// DownloadURL returns the public URL serving key.
	DownloadURL(key string) string
}
