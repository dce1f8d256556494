package middleware

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitStore implements RateLimitStore using Redis, so rate limit
// state is shared across server instances. It uses a fixed window counter
// (INCR with an expiry started on the first request of each window).
//
// The store fails open: when Redis is unreachable the request is allowed and
// the full window quota is reported as remaining.
type RedisRateLimitStore struct {
	client *redis.Client
}

// NewRedisRateLimitStore creates a new Redis-backed rate limit store.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client}
}

// Allow checks if a request from the given key should be allowed.
// Implements the RateLimitStore interface.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, int, int) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		slog.WarnContext(ctx, "rate limit store unavailable, failing open", "error", err)
		return true, config.RequestsPerWindow, 0
	}

	if count == 1 {
		// First request of the window starts the clock. PEXPIRE keeps
		// millisecond precision for sub-second windows.
		if err := s.client.PExpire(ctx, key, config.WindowDuration).Err(); err != nil {
			slog.WarnContext(ctx, "failed to set rate limit window expiry", "key", key, "error", err)
		}
	}

	if int(count) <= config.RequestsPerWindow {
		return true, config.RequestsPerWindow - int(count), 0
	}

	retryAfter := int(config.WindowDuration.Seconds())
	ttl, err := s.client.PTTL(ctx, key).Result()
	switch {
	case err != nil:
		slog.WarnContext(ctx, "failed to read rate limit window expiry", "key", key, "error", err)
	case ttl < 0:
		// Counter without an expiry means a prior PEXPIRE was lost. Restart
		// the window so the key cannot block the client forever.
		if err := s.client.PExpire(ctx, key, config.WindowDuration).Err(); err != nil {
			slog.WarnContext(ctx, "failed to repair rate limit window expiry", "key", key, "error", err)
		}
	default:
		retryAfter = int(ttl.Seconds())
	}
	if retryAfter <= 0 {
		retryAfter = 1
	}
	return false, 0, retryAfter
}
