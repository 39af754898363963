// Package storage abstracts media blob storage behind the Disk interface,
// with local-filesystem and S3 drivers selected by configuration.
package storage

import (
	"context"
	"io"
)

// Disk is a named blob store. Keys are flat strings; drivers may map them to
// paths or object keys as they see fit.
type Disk interface {
	// Put stores the contents of r under key, returning the number of
	// bytes written.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// Get opens the blob stored under key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a blob is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the publicly reachable URL for key.
	URL(key string) string
}
