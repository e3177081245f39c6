package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestLimiter_Allow(t *testing.T) {
	mr, rdb := newTestClient(t)
	limiter := NewLimiter(rdb, "rate_limit:", 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other keys have their own window")

	mr.FastForward(time.Minute + time.Second)

	ok, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "window resets after the period")
}

func TestLimiter_DisabledWithoutClient(t *testing.T) {
	var nilLimiter *Limiter
	ok, err := nilLimiter.Allow(context.Background(), "k")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewLimiter(nil, "p:", 1, time.Minute).Allow(context.Background(), "k")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenRevocations(t *testing.T) {
	mr, rdb := newTestClient(t)
	revocations := NewTokenRevocations(rdb)
	ctx := context.Background()

	revoked, err := revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revocations.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(time.Hour + time.Second)

	revoked, err = revocations.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entries expire with the token")
}

func TestNewClient_EmptyAddr(t *testing.T) {
	assert.Nil(t, NewClient(context.Background(), ""))
}

func TestNewClient_Reachable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewClient(context.Background(), mr.Addr())
	require.NotNil(t, client)
	client.Close()
}
