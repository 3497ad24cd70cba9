package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Hour))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, c.Set(ctx, "k", []byte("v2"), time.Hour))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("v"), 0))

	now = now.Add(2 * time.Minute)
	_, err := c.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, c.Len())

	_, err = c.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemoryCache_SetSweepsExpired(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("old-%d", i), []byte("v"), time.Hour))
	}
	require.NoError(t, c.Set(ctx, "pinned", []byte("v"), 0))
	assert.Equal(t, 1001, c.Len())

	now = now.Add(48 * time.Hour)
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("new-%d", i), []byte("v"), time.Hour))
	}
	assert.Equal(t, 11, c.Len())

	// Within the sweep interval expired entries wait for the next sweep.
	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
	now = now.Add(2 * time.Second)
	require.NoError(t, c.Set(ctx, "other", []byte("v"), time.Hour))
	assert.Equal(t, 13, c.Len())

	now = now.Add(sweepInterval)
	require.NoError(t, c.Set(ctx, "later", []byte("v"), time.Hour))
	assert.Equal(t, 13, c.Len())
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCache(client, "session:")
	exerciseCache(t, c)

	require.NoError(t, c.Set(context.Background(), "ttl", []byte("v"), time.Minute))
	key := c.makeKey("ttl")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
	assert.Contains(t, key, "session:")

	mr.FastForward(2 * time.Minute)
	_, err := c.Get(context.Background(), "ttl")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRedisCache_NilClient(t *testing.T) {
	c := NewRedisCache(nil, "session:")
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	_ = client.Close()
}
