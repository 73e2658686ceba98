package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*Storage)(nil)

func newTestStorage(t *testing.T) (*miniredis.Miniredis, *Storage) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStorage(rdb, "sess:")
}

func TestOptions(t *testing.T) {
	t.Parallel()

	opts, err := Options("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	require.NotNil(t, opts.MaintNotificationsConfig)

	opts, err = Options("redis://:secret@cache.internal:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = Options("  ")
	assert.Error(t, err)
	_, err = Options("redis://%zz")
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := Connect(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))

	dead, err := miniredis.Run()
	require.NoError(t, err)
	addr := dead.Addr()
	dead.Close()
	_, err = Connect(context.Background(), addr)
	assert.ErrorContains(t, err, "ping")
}

func TestStorage_GetSetDelete(t *testing.T) {
	mr, s := newTestStorage(t)

	val, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("abc", []byte("payload"), time.Minute))
	assert.True(t, mr.Exists("sess:abc"))
	assert.Equal(t, time.Minute, mr.TTL("sess:abc"))

	val, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)

	require.NoError(t, s.Delete("abc"))
	val, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStorage_Expiry(t *testing.T) {
	mr, s := newTestStorage(t)

	require.NoError(t, s.Set("short", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)

	val, err := s.Get("short")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestStorage_ResetOnlyTouchesPrefix(t *testing.T) {
	mr, s := newTestStorage(t)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, s.Reset())
	assert.False(t, mr.Exists("sess:a"))
	assert.False(t, mr.Exists("sess:c"))
	assert.True(t, mr.Exists("other:key"))
	assert.NoError(t, s.Close())
}

func TestStorage_IgnoresEmptyKeys(t *testing.T) {
	_, s := newTestStorage(t)

	assert.NoError(t, s.Set("", []byte("x"), 0))
	assert.NoError(t, s.Set("k", nil, 0))
	val, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, val)
	assert.NoError(t, s.Delete(""))
}
