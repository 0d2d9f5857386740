package redisstore

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlacklist(t *testing.T, prefix string) (*TokenBlacklist, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewTokenBlacklist(rdb, prefix), mr
}

func TestTokenBlacklist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	token := "eyJhbGciOiJIUzI1NiJ9.payload.signature"

	t.Run("recorded token is contained", func(t *testing.T) {
		t.Parallel()
		bl, _ := newTestBlacklist(t, "taskhive")

		found, err := bl.Contains(ctx, token)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, bl.Record(ctx, token, time.Now().Add(time.Hour)))

		found, err = bl.Contains(ctx, token)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("recording is idempotent", func(t *testing.T) {
		t.Parallel()
		bl, _ := newTestBlacklist(t, "taskhive")

		expiry := time.Now().Add(time.Hour)
		require.NoError(t, bl.Record(ctx, token, expiry))
		require.NoError(t, bl.Record(ctx, token, expiry))

		found, err := bl.Contains(ctx, token)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("already expired token is not recorded", func(t *testing.T) {
		t.Parallel()
		bl, mr := newTestBlacklist(t, "taskhive")

		require.NoError(t, bl.Record(ctx, token, time.Now().Add(-time.Minute)))

		found, err := bl.Contains(ctx, token)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, mr.Keys())
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		t.Parallel()
		bl, mr := newTestBlacklist(t, "taskhive")

		require.NoError(t, bl.Record(ctx, token, time.Now().Add(30*time.Second)))
		mr.FastForward(time.Minute)

		found, err := bl.Contains(ctx, token)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("raw token never appears in redis", func(t *testing.T) {
		t.Parallel()
		bl, mr := newTestBlacklist(t, "taskhive")

		require.NoError(t, bl.Record(ctx, token, time.Now().Add(time.Hour)))

		keys := mr.Keys()
		require.Len(t, keys, 1)
		assert.NotContains(t, keys[0], token)
		assert.True(t, strings.HasPrefix(keys[0], "taskhive:blacklist:"))
	})

	t.Run("empty prefix still namespaces keys", func(t *testing.T) {
		t.Parallel()
		bl, mr := newTestBlacklist(t, "")

		require.NoError(t, bl.Record(ctx, token, time.Now().Add(time.Hour)))

		keys := mr.Keys()
		require.Len(t, keys, 1)
		assert.True(t, strings.HasPrefix(keys[0], "blacklist:"))
	})
}
