package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotExist is returned by Delete when there is no blob at the path.
// Callers treating "no prior image" as success key off this error.
var ErrObjectNotExist = errors.New("storage object does not exist")

// BlobStore defines the interface for binary object storage, used for
// profile images.
type BlobStore interface {
	// Upload writes the blob at the given path and returns the object
	// reference used for download-URL resolution.
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)

	// DownloadURL resolves a public download URL for an uploaded object.
	DownloadURL(ctx context.Context, objectName string) (string, error)

	// Delete removes the blob at the given path. Returns ErrObjectNotExist
	// when nothing is stored there.
	Delete(ctx context.Context, path string) error
}
