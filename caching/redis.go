package caching

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCachingService struct {
	client *redis.Client
}

func NewRedisCachingService(client *redis.Client) *RedisCachingService {
	return &RedisCachingService{client: client}
}

func (s *RedisCachingService) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, "1", ttl).Result()
}

func (s *RedisCachingService) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
