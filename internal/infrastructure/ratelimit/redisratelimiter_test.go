package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	t.Run("allows up to the per-minute budget then rejects", func(t *testing.T) {
		cfg := RateLimitConfig{RequestsPerMinute: 5}

		for i := 0; i < 5; i++ {
			allowed, err := limiter.Allow(ctx, "reserve:ip:10.0.0.1", cfg)
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, err := limiter.Allow(ctx, "reserve:ip:10.0.0.1", cfg)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		cfg := RateLimitConfig{RequestsPerMinute: 1}

		allowed, err := limiter.Allow(ctx, "scan:scanner:gate-1", cfg)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, "scan:scanner:gate-2", cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("zero limits disable enforcement", func(t *testing.T) {
		cfg := RateLimitConfig{}

		for i := 0; i < 10; i++ {
			allowed, err := limiter.Allow(ctx, "unlimited", cfg)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("reset clears the budget", func(t *testing.T) {
		cfg := RateLimitConfig{RequestsPerMinute: 1}

		allowed, err := limiter.Allow(ctx, "resettable", cfg)
		require.NoError(t, err)
		assert.True(t, allowed)

		allowed, err = limiter.Allow(ctx, "resettable", cfg)
		require.NoError(t, err)
		assert.False(t, allowed)

		require.NoError(t, limiter.Reset(ctx, "resettable"))

		allowed, err = limiter.Allow(ctx, "resettable", cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisRateLimiter_GetRemaining(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()

	cfg := RateLimitConfig{RequestsPerMinute: 10}
	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "counted", cfg)
		require.NoError(t, err)
	}

	used, err := limiter.GetRemaining(ctx, "counted", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), used)
}
