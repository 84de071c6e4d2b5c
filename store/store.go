package store

import (
	"context"
	"errors"
	"time"

	"github.com/readytoruncq/fieldservice-uploads/health"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectMetadata is what the notifier re-reads from storage for one object.
// Custom holds the flat string map attached at upload time; key casing is
// not preserved by the backend.
type ObjectMetadata struct {
	ContentType string
	Size        int64
	Custom      map[string]string
}

// ObjectStorage is the pipeline's view of the object store: write one object
// with metadata, read metadata back, and mint time-limited download URLs.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error
	GetMetadata(ctx context.Context, key string) (*ObjectMetadata, error)
	GenerateDownloadUrl(ctx context.Context, key string, ttl time.Duration) (string, error)
	Bucket() string

	health.ReadinessCheck
}
