package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	b, err := NewRedisBackend(context.Background(), "redis://"+mr.Addr(), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, mr
}

func TestRedisBackend_SetGetDelete(t *testing.T) {
	b, _ := newTestRedis(t, 0)
	ctx := context.Background()

	v, err := b.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, b.Set(ctx, "k", []byte(`{"x":1}`)))
	v, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"x":1}`), v)

	require.NoError(t, b.Delete(ctx, "k"))
	v, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRedisBackend_TTL(t *testing.T) {
	b, mr := newTestRedis(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", []byte("v")))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	v, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestRedisBackend_ServerDown(t *testing.T) {
	b, mr := newTestRedis(t, 0)
	mr.Close()

	err := b.Set(context.Background(), "k", []byte("v"))
	require.ErrorContains(t, err, "redis set k")
}

func TestNewRedisBackend_BadURL(t *testing.T) {
	_, err := NewRedisBackend(context.Background(), "not-a-url", 0)
	require.ErrorContains(t, err, "parse redis url")
}
