package caching

import (
	"context"
	"time"
)

// NullCachingService keeps the pipeline functional without Redis: every
// MarkOnce reports first-time, so duplicate suppression is simply off.
type NullCachingService struct{}

func NewNullCachingService() *NullCachingService {
	return &NullCachingService{}
}

func (s *NullCachingService) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (s *NullCachingService) Delete(ctx context.Context, key string) error {
	return nil
}
