// Package cache stores validated detection results in Redis so repeat
// requests for the same image and prompt skip the vision model.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/blueplan/roomsight/internal/detect"
	"github.com/blueplan/roomsight/internal/tracing"
	"github.com/blueplan/roomsight/internal/validate"
)

// DefaultTTL bounds how long a cached detection stays valid.
const DefaultTTL = 24 * time.Hour

// cachedRoom is the CBOR wire form of one stored room record.
type cachedRoom struct {
	ID          string    `cbor:"id"`
	BoundingBox []float64 `cbor:"bounding_box"`
	NameHint    string    `cbor:"name_hint,omitempty"`
}

// RedisResultCache stores validated room records in Redis, CBOR-encoded
// under the pipeline's content-derived keys. Safe for concurrent use.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ detect.ResultCache = (*RedisResultCache)(nil)

// NewRedisResultCache wraps an existing Redis client. A non-positive ttl
// falls back to DefaultTTL.
func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisResultCache{client: client, ttl: ttl}
}

// Get returns the rooms cached under key. A missing or expired key is
// (nil, false, nil).
func (c *RedisResultCache) Get(ctx context.Context, key string) (rooms []validate.RoomRecord, ok bool, err error) {
	ctx, end := tracing.StartStorageSpan(ctx, "redis", tracing.StorageOperationGet)
	defer func() { end(err) }()

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	rooms, err = decodeRooms(data)
	if err != nil {
		return nil, false, err
	}
	return rooms, true, nil
}

// Set stores rooms under key for the configured TTL.
func (c *RedisResultCache) Set(ctx context.Context, key string, rooms []validate.RoomRecord) (err error) {
	ctx, end := tracing.StartStorageSpan(ctx, "redis", tracing.StorageOperationSet)
	defer func() { end(err) }()

	data, err := encodeRooms(rooms)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Ping reports whether the backing Redis is reachable.
func (c *RedisResultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func encodeRooms(rooms []validate.RoomRecord) ([]byte, error) {
	wire := make([]cachedRoom, len(rooms))
	for i, r := range rooms {
		wire[i] = cachedRoom(r)
	}
	data, err := cbor.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encode cached rooms: %w", err)
	}
	return data, nil
}

func decodeRooms(data []byte) ([]validate.RoomRecord, error) {
	var wire []cachedRoom
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode cached rooms: %w", err)
	}
	rooms := make([]validate.RoomRecord, len(wire))
	for i, r := range wire {
		rooms[i] = validate.RoomRecord(r)
	}
	return rooms, nil
}
