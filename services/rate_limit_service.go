package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiterInterface defines the contract for fixed-window rate limiting.
type RateLimiterInterface interface {
	// CheckLimit counts one request against key. It reports whether the
	// request is allowed, how many remain in the window, and when the window
	// resets if the limit is exceeded.
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, retryAfter time.Duration, err error)
}

// RateLimitService implements RateLimiterInterface with Redis INCR/EXPIRE. The
// expiry is set once per window, so the window is fixed.
type RateLimitService struct {
	redis     *redis.Client
	keyPrefix string
}

func NewRateLimitService(redis *redis.Client) *RateLimitService {
	return &RateLimitService{
		redis:     redis,
		keyPrefix: "rate_limit:",
	}
}

func (s *RateLimitService) GetRedisClient() *redis.Client {
	return s.redis
}

func (s *RateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Duration, error) {
	rKey := s.keyPrefix + key

	count, err := s.redis.Incr(ctx, rKey).Result()
	if err != nil {
		return false, 0, 0, err
	}

	// The window starts with the first request; later requests must not extend it.
	if count == 1 {
		if err := s.redis.Expire(ctx, rKey, window).Err(); err != nil {
			return false, 0, 0, err
		}
	}

	if count > int64(limit) {
		ttl, err := s.redis.TTL(ctx, rKey).Result()
		if err == nil && ttl == -1 {
			// Key lost its expiry (expire failed after incr); restart the window.
			s.redis.Expire(ctx, rKey, window)
		}
		if err != nil || ttl <= 0 {
			ttl = window
		}
		return false, 0, ttl, nil
	}

	return true, limit - int(count), 0, nil
}
