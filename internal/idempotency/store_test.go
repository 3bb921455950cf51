package idempotency

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  redisStore,
	}
}

func TestStore_Lifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			prior, err := store.Reserve(ctx, "draft-1")
			require.NoError(t, err)
			assert.Nil(t, prior, "first reservation claims the key")

			prior, err = store.Reserve(ctx, "draft-1")
			require.NoError(t, err)
			require.NotNil(t, prior)
			assert.True(t, prior.Pending)

			require.NoError(t, store.Complete(ctx, "draft-1", 42))

			prior, err = store.Reserve(ctx, "draft-1")
			require.NoError(t, err)
			require.NotNil(t, prior)
			assert.False(t, prior.Pending)
			assert.Equal(t, int64(42), prior.LeadID)
		})
	}
}

func TestStore_ReleaseAllowsRetry(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Reserve(ctx, "draft-2")
			require.NoError(t, err)
			require.NoError(t, store.Release(ctx, "draft-2"))

			prior, err := store.Reserve(ctx, "draft-2")
			require.NoError(t, err)
			assert.Nil(t, prior)
		})
	}
}

func TestStore_EmptyKey(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Reserve(context.Background(), "  ")
			assert.ErrorIs(t, err, ErrEmptyKey)
			assert.ErrorIs(t, store.Complete(context.Background(), "", 1), ErrEmptyKey)
			assert.ErrorIs(t, store.Release(context.Background(), ""), ErrEmptyKey)
		})
	}
}

func TestStore_ConcurrentReserveHasOneWinner(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var winners atomic.Int32
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					prior, err := store.Reserve(context.Background(), "same-draft")
					if err == nil && prior == nil {
						winners.Add(1)
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), winners.Load())
		})
	}
}

func TestRedisStore_KeyExpires(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Reserve(ctx, "draft-3")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"draft-3"))

	mr.FastForward(2 * time.Hour)

	prior, err := store.Reserve(ctx, "draft-3")
	require.NoError(t, err)
	assert.Nil(t, prior)
}

func TestRedisStore_StoredValues(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Reserve(ctx, "draft-4")
	require.NoError(t, err)
	value, err := mr.Get(keyPrefix + "draft-4")
	require.NoError(t, err)
	assert.Equal(t, pendingValue, value)

	require.NoError(t, store.Complete(ctx, "draft-4", 77))
	value, err = mr.Get(keyPrefix + "draft-4")
	require.NoError(t, err)
	assert.Equal(t, "77", value)
	assert.Greater(t, mr.TTL(keyPrefix+"draft-4"), time.Duration(0))
}

func TestRedisStore_BackendDown(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.Reserve(context.Background(), "draft-5")
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, &Prior{Pending: true}, parseValue("pending"))
	assert.Equal(t, &Prior{LeadID: 9}, parseValue("9"))
	assert.Equal(t, &Prior{Pending: true}, parseValue("garbage"))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewRedisClient(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}
