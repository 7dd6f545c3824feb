package service

import "context"

// ObjectStorage abstracts the binary object store behind the image upload
// operations. Paths are namespaced by the caller; buckets are fixed
// (profile-images, service-images).
type ObjectStorage interface {
	// Upload writes the object and returns its public URL.
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)

	// PublicURL maps a stored object path to its public URL.
	PublicURL(bucket, path string) string

	// Delete removes a stored object.
	Delete(ctx context.Context, bucket, path string) error
}
