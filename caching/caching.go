package caching

import (
	"context"
	"time"
)

// CachingService is the small shared-state surface the pipeline needs: a
// best-effort once-marker used to suppress duplicate event deliveries, and
// key deletion for cleanup.
type CachingService interface {
	// MarkOnce records key atomically and reports whether this call was the
	// first to do so within ttl.
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}
