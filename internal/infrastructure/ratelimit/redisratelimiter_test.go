package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()
	limit := Limit{Requests: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "login:10.0.0.1", limit)
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "login:10.0.0.1", limit)
	require.NoError(t, err)
	assert.False(t, allowed, "4th attempt should be denied")

	allowed, err = limiter.Allow(ctx, "login:10.0.0.2", limit)
	require.NoError(t, err)
	assert.True(t, allowed, "other keys are independent")
}

func TestRedisRateLimiter_WindowSlides(t *testing.T) {
	_, client := setupTestRedis(t)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := &RedisRateLimiter{client: client, now: func() time.Time { return clock }}
	ctx := context.Background()
	limit := Limit{Requests: 1, Window: time.Minute}

	allowed, err := limiter.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.False(t, allowed)

	clock = clock.Add(2 * time.Minute)
	allowed, err = limiter.Allow(ctx, "k", limit)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_CountAndReset(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	ctx := context.Background()
	limit := Limit{Requests: 10, Window: time.Minute}

	for i := 0; i < 4; i++ {
		_, err := limiter.Allow(ctx, "k", limit)
		require.NoError(t, err)
	}

	n, err := limiter.Count(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.NoError(t, limiter.Reset(ctx, "k"))
	n, err = limiter.Count(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisRateLimiter_DisabledLimit(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)

	allowed, err := limiter.Allow(context.Background(), "k", Limit{})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_StoreDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "k", Limit{Requests: 1, Window: time.Minute})
	assert.Error(t, err)
}
