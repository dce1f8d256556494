// Package health provides readiness checks for the service's backing stores.
package health

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisChecker reports whether the Redis result cache is reachable.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a health checker for the given Redis client.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{
		client: client,
	}
}

// HealthCheck pings Redis.
func (r *RedisChecker) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
