// Package constants holds cross-layer constant values.
package constants

const (
	// PubSubProviderLocal selects the local HTTP publisher for development.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle selects Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)

const (
	// BucketProfileImages stores user avatar uploads.
	BucketProfileImages = "profile-images"
	// BucketServiceImages stores service listing images.
	BucketServiceImages = "service-images"
)
