package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// gcsBlobStore implements BlobStore on a Firebase Storage (GCS) bucket.
// Objects are tagged with a firebaseStorageDownloadTokens metadata entry at
// upload time so the Firebase-style download URL stays resolvable without a
// second round trip.
type gcsBlobStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
	logger     *zap.Logger
}

// NewGCSBlobStore creates a BlobStore backed by the given bucket.
func NewGCSBlobStore(bucket *gcs.BucketHandle, bucketName string, logger *zap.Logger) BlobStore {
	if bucket == nil {
		panic("storage bucket handle is not initialized for BlobStore")
	}
	return &gcsBlobStore{bucket: bucket, bucketName: bucketName, logger: logger}
}

func (s *gcsBlobStore) Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	token := uuid.NewString()

	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: finalize %s: %w", path, err)
	}

	return path, nil
}

func (s *gcsBlobStore) DownloadURL(ctx context.Context, objectName string) (string, error) {
	attrs, err := s.bucket.Object(objectName).Attrs(ctx)
	if err != nil {
		return "", fmt.Errorf("storage: attrs %s: %w", objectName, err)
	}
	token := attrs.Metadata["firebaseStorageDownloadTokens"]
	return firebaseDownloadURL(s.bucketName, objectName, token), nil
}

func (s *gcsBlobStore) Delete(ctx context.Context, path string) error {
	err := s.bucket.Object(path).Delete(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return ErrObjectNotExist
		}
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}
