package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startRedis launches a throwaway Redis container and returns a client
// bound to it. Tests skip when containers cannot be started.
func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("could not start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	endpoint, err := ctr.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("container endpoint: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisRateLimitStoreQuota(t *testing.T) {
	client := startRedis(t)
	store := NewRedisRateLimitStore(client)
	ctx := context.Background()

	config := RateLimitConfig{RequestsPerWindow: 5, WindowDuration: time.Minute}
	key := fmt.Sprintf("detect-quota-%d", time.Now().UnixNano())

	for i := 1; i <= config.RequestsPerWindow; i++ {
		allowed, remaining, _ := store.Allow(ctx, key, config)
		if !allowed {
			t.Fatalf("request %d blocked, want allowed", i)
		}
		if want := config.RequestsPerWindow - i; remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i, remaining, want)
		}
	}

	allowed, remaining, retryAfter := store.Allow(ctx, key, config)
	if allowed {
		t.Error("request over quota allowed, want blocked")
	}
	if remaining != 0 {
		t.Errorf("remaining when blocked = %d, want 0", remaining)
	}
	if retryAfter <= 0 || retryAfter > 60 {
		t.Errorf("retryAfter = %d, want within (0, 60]", retryAfter)
	}
}

func TestRedisRateLimitStoreKeysAreIndependent(t *testing.T) {
	client := startRedis(t)
	store := NewRedisRateLimitStore(client)
	ctx := context.Background()

	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: time.Minute}
	now := time.Now().UnixNano()
	keyA := fmt.Sprintf("client-a-%d", now)
	keyB := fmt.Sprintf("client-b-%d", now)

	if allowed, _, _ := store.Allow(ctx, keyA, config); !allowed {
		t.Error("first request for key A blocked")
	}
	if allowed, _, _ := store.Allow(ctx, keyB, config); !allowed {
		t.Error("first request for key B blocked, exhausting A must not affect B")
	}
	if allowed, _, _ := store.Allow(ctx, keyA, config); allowed {
		t.Error("second request for key A allowed, want blocked")
	}
}

func TestRedisRateLimitStoreWindowExpiry(t *testing.T) {
	client := startRedis(t)
	store := NewRedisRateLimitStore(client)
	ctx := context.Background()

	config := RateLimitConfig{RequestsPerWindow: 1, WindowDuration: 100 * time.Millisecond}
	key := fmt.Sprintf("detect-expiry-%d", time.Now().UnixNano())

	if allowed, _, _ := store.Allow(ctx, key, config); !allowed {
		t.Fatal("first request blocked")
	}
	if allowed, _, _ := store.Allow(ctx, key, config); allowed {
		t.Fatal("request inside window allowed, want blocked")
	}

	time.Sleep(150 * time.Millisecond)

	if allowed, _, _ := store.Allow(ctx, key, config); !allowed {
		t.Error("request after window expiry blocked, want allowed")
	}
}

func TestRedisRateLimitStoreFailsOpen(t *testing.T) {
	// A client pointed at a closed port simulates Redis being down. Rate
	// limiting must not take detection traffic down with it.
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	defer client.Close()

	store := NewRedisRateLimitStore(client)
	config := RateLimitConfig{RequestsPerWindow: 5, WindowDuration: time.Minute}

	allowed, remaining, _ := store.Allow(context.Background(), "unreachable", config)
	if !allowed {
		t.Error("request blocked while redis is unreachable, want fail open")
	}
	if remaining != config.RequestsPerWindow {
		t.Errorf("remaining on error = %d, want full quota %d", remaining, config.RequestsPerWindow)
	}
}
