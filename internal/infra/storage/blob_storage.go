// Package storage implements the object store behind image uploads using
// gocloud.dev/blob, so local file buckets and cloud buckets share one code path.
package storage

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket driver
	_ "gocloud.dev/blob/memblob"  // mem:// bucket driver for tests

	"nearby/config"
	"nearby/internal/domain/service"
	"nearby/internal/errors"
)

// BlobStorage stores objects in gocloud.dev buckets. Bucket handles are opened
// lazily per bucket name and cached for the life of the process.
type BlobStorage struct {
	bucketURL     string
	publicBaseURL string
	logger        *slog.Logger

	mu      sync.Mutex
	buckets map[string]*blob.Bucket
}

// NewBlobStorage creates the object storage backed by the configured bucket URL.
func NewBlobStorage(cfg *config.Config, logger *slog.Logger) (service.ObjectStorage, error) {
	if cfg.Storage == nil || cfg.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket URL must be provided")
	}

	return &BlobStorage{
		bucketURL:     strings.TrimRight(cfg.Storage.BucketURL, "/"),
		publicBaseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		logger:        logger,
		buckets:       make(map[string]*blob.Bucket),
	}, nil
}

// Upload writes the object and returns its public URL.
func (s *BlobStorage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	b, err := s.openBucket(ctx, bucket)
	if err != nil {
		return "", err
	}

	opts := &blob.WriterOptions{ContentType: contentType}
	if err := b.WriteAll(ctx, path, data, opts); err != nil {
		return "", errors.Wrapf(err, "failed to write object %s/%s", bucket, path)
	}

	s.logger.Debug("Uploaded object", "bucket", bucket, "path", path, "bytes", len(data))

	return s.PublicURL(bucket, path), nil
}

// PublicURL maps a stored object path to its public URL.
func (s *BlobStorage) PublicURL(bucket, path string) string {
	return s.publicBaseURL + "/" + bucket + "/" + strings.TrimLeft(path, "/")
}

// Delete removes a stored object.
func (s *BlobStorage) Delete(ctx context.Context, bucket, path string) error {
	b, err := s.openBucket(ctx, bucket)
	if err != nil {
		return err
	}

	if err := b.Delete(ctx, path); err != nil {
		return errors.Wrapf(err, "failed to delete object %s/%s", bucket, path)
	}

	return nil
}

// Close releases all opened bucket handles.
func (s *BlobStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, b := range s.buckets {
		if err := b.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "failed to close bucket %s", name))
		}
		delete(s.buckets, name)
	}

	return errors.Join(errs...)
}

// openBucket returns the cached handle for a bucket, opening it on first use.
func (s *BlobStorage) openBucket(ctx context.Context, bucket string) (*blob.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.buckets[bucket]; ok {
		return b, nil
	}

	b, err := blob.OpenBucket(ctx, s.bucketURL+"/"+bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucket)
	}
	s.buckets[bucket] = b

	return b, nil
}
