package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedThing struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestAside_MissThenHit(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			calls++
			*dest = cachedThing{ID: 1, Name: "deal"}
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, UserKey(1), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "deal", first.Name)
	assert.True(t, mr.Exists("user:1"))

	var second cachedThing
	require.NoError(t, Aside(ctx, UserKey(1), &second, UserTTL, fetch(&second)))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists("user:1"))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := useMiniredis(t)
	var dest cachedThing

	err := Aside(context.Background(), PublishedPostsKey, &dest, PostListTTL, func() error {
		return errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists(PublishedPostsKey))
}

func TestAside_WithoutRedis(t *testing.T) {
	SetClient(nil)
	var dest cachedThing
	err := Aside(context.Background(), "k", &dest, time.Minute, func() error {
		dest.ID = 9
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), dest.ID)
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		in       string
		wantAddr string
		wantPass string
		wantDB   int
	}{
		{"redis://:mypassword@redis:6379/1", "redis:6379", "mypassword", 1},
		{"localhost:6379", "localhost:6379", "", 0},
	}

	for _, tc := range tests {
		opts, err := ParseOptions(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.wantAddr, opts.Addr)
		assert.Equal(t, tc.wantPass, opts.Password)
		assert.Equal(t, tc.wantDB, opts.DB)
	}
}
