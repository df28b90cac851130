package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payments-chat-backend/internal/features/ledger/repository"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t)

	_, err := s.Get(ctx, "balance:1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Set(ctx, "balance:1", []byte("500"), 0))
	got, err := s.Get(ctx, "balance:1")
	require.NoError(t, err)
	assert.Equal(t, "500", string(got))

	require.NoError(t, s.Set(ctx, "session:abc", []byte("1"), time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("session:abc"))

	require.NoError(t, s.Delete(ctx, "balance:1"))
	_, err = s.Get(ctx, "balance:1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdate_SeesNilForMissingKey(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	seen := []byte("sentinel")
	require.NoError(t, s.Update(ctx, "k", func(current []byte) ([]byte, error) {
		seen = current
		return []byte("v1"), nil
	}))
	assert.Nil(t, seen)

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
}

func TestUpdate_PropagatesCallbackError(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	boom := errors.New("boom")

	err := s.Update(ctx, "k", func([]byte) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdate_ConcurrentIncrementsAllLand(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	var failures sync.Map
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Update(ctx, "counter", func(current []byte) ([]byte, error) {
				n, _ := strconv.Atoi(string(current))
				return []byte(strconv.Itoa(n + 1)), nil
			})
			if err != nil {
				failures.Store(i, err)
			}
		}(i)
	}
	wg.Wait()

	failures.Range(func(k, v interface{}) bool {
		t.Errorf("update %v failed: %v", k, v)
		return true
	})
	got, err := s.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "3", string(got))
}

func TestPublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, _ := newTestStore(t)

	msgs, stop, err := s.Subscribe(ctx, "ledger:changes:7")
	require.NoError(t, err)
	defer stop()

	require.NoError(t, s.Publish(ctx, "ledger:changes:7", []byte(`{"user_id":7}`)))

	select {
	case got := <-msgs:
		assert.JSONEq(t, `{"user_id":7}`, string(got))
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}
