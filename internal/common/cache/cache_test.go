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

type cachedUser struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
}

func newTestCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheService(client), mr
}

func TestGet_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	var u cachedUser
	assert.ErrorIs(t, c.Get(context.Background(), UserKey(1), &u), ErrMiss)
}

func TestGetOrSet_FillsOnceThenHits(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	calls := 0
	setter := func() (interface{}, error) {
		calls++
		return cachedUser{ID: 2955, Handle: "maria"}, nil
	}

	var first, second cachedUser
	require.NoError(t, c.GetOrSet(ctx, UserKey(2955), &first, time.Minute, setter))
	require.NoError(t, c.GetOrSet(ctx, UserKey(2955), &second, time.Minute, setter))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "maria", second.Handle)
	assert.Equal(t, time.Minute, mr.TTL(UserKey(2955)))
}

func TestGetOrSet_SetterError(t *testing.T) {
	c, mr := newTestCache(t)

	var u cachedUser
	err := c.GetOrSet(context.Background(), UserKey(9), &u, time.Minute, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.False(t, mr.Exists(UserKey(9)))
}
