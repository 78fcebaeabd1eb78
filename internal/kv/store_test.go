package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reset:ana@uni.edu", "123456", time.Minute))
	v, err := store.Get(ctx, "reset:ana@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, "123456", v)

	ok, err := store.Exists(ctx, "reset:ana@uni.edu")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "reset:ana@uni.edu"))
	_, err = store.Get(ctx, "reset:ana@uni.edu")
	assert.ErrorIs(t, err, ErrMissing)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "session:revoked:abc", "1", 10*time.Minute))
	mr.FastForward(11 * time.Minute)

	ok, err := store.Exists(ctx, "session:revoked:abc")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.Get(ctx, "session:revoked:abc")
	assert.ErrorIs(t, err, ErrMissing)
}

func TestRedisStoreIncr(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := store.Incr(ctx, "reset:attempts:ana@uni.edu", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.Equal(t, 15*time.Minute, mr.TTL("reset:attempts:ana@uni.edu"))

	mr.FastForward(16 * time.Minute)
	n, err := store.Incr(ctx, "reset:attempts:ana@uni.edu", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "the counter restarts after expiry")

	_, err = store.Incr(ctx, "k", 0)
	assert.Error(t, err)
}

func TestRedisStoreRejectsMissingTTL(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.Set(context.Background(), "k", "v", 0))
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)
	mr.Close()

	_, err = store.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissing)
}
