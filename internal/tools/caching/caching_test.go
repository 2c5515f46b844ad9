package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	value := cachedValue{Name: "saloon", Count: 3}

	t.Run("should store deflated json", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cacher := NewRedisCache(db, "test:")

		payload, _ := deflate([]byte(`{"name":"saloon","count":3}`))
		mock.ExpectSetEx("test:key", payload, time.Minute).SetVal("OK")

		require.NoError(t, cacher.Store(ctx, "key", value, time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should fetch and inflate", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cacher := NewRedisCache(db, "test:")

		payload, _ := deflate([]byte(`{"name":"saloon","count":3}`))
		mock.ExpectGet("test:key").SetVal(string(payload))

		var fetched cachedValue
		require.NoError(t, cacher.Fetch(ctx, "key", &fetched))
		assert.Equal(t, value, fetched)
	})

	t.Run("should report a miss", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cacher := NewRedisCache(db, "test:")

		mock.ExpectGet("test:key").RedisNil()

		var fetched cachedValue
		assert.ErrorIs(t, cacher.Fetch(ctx, "key", &fetched), ErrMiss)
	})

	t.Run("should pass redis errors through", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cacher := NewRedisCache(db, "test:")

		mock.ExpectGet("test:key").SetErr(errors.New("connection reset"))

		var fetched cachedValue
		err := cacher.Fetch(ctx, "key", &fetched)
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrMiss))
	})

	t.Run("should touch and delete", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cacher := NewRedisCache(db, "test:")

		mock.ExpectExpire("test:key", time.Hour).SetVal(true)
		mock.ExpectExpire("test:gone", time.Hour).SetVal(false)
		mock.ExpectDel("test:key").SetVal(1)

		assert.NoError(t, cacher.Touch(ctx, "key", time.Hour))
		assert.ErrorIs(t, cacher.Touch(ctx, "gone", time.Hour), ErrMiss)
		assert.NoError(t, cacher.Delete(ctx, "key"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

}

func TestMemoryEngine(t *testing.T) {
	ctx := context.Background()
	cacher := NewCacher(NewMemoryEngine(), "")

	require.NoError(t, cacher.Store(ctx, "key", cachedValue{Name: "mpv"}, time.Minute))

	var fetched cachedValue
	require.NoError(t, cacher.Fetch(ctx, "key", &fetched))
	assert.Equal(t, "mpv", fetched.Name)

	require.NoError(t, cacher.Touch(ctx, "key", 20*time.Millisecond))
	require.NoError(t, cacher.Fetch(ctx, "key", &fetched))

	assert.Eventually(t, func() bool {
		return errors.Is(cacher.Fetch(ctx, "key", &fetched), ErrMiss)
	}, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, cacher.Touch(ctx, "key", time.Minute), ErrMiss)

	require.NoError(t, cacher.Delete(ctx, "missing"))
}

func TestAcquire(t *testing.T) {
	ctx := context.Background()

	t.Run("should take a free key once", func(t *testing.T) {
		cacher := NewCacher(NewMemoryEngine(), "lock:")

		taken, err := cacher.Acquire(ctx, "flow", time.Minute)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = cacher.Acquire(ctx, "flow", time.Minute)
		require.NoError(t, err)
		assert.False(t, taken)

		require.NoError(t, cacher.Delete(ctx, "flow"))

		taken, err = cacher.Acquire(ctx, "flow", time.Minute)
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("should free the key after its lifetime", func(t *testing.T) {
		cacher := NewCacher(NewMemoryEngine(), "lock:")

		taken, err := cacher.Acquire(ctx, "flow", 20*time.Millisecond)
		require.NoError(t, err)
		require.True(t, taken)

		assert.Eventually(t, func() bool {
			taken, err := cacher.Acquire(ctx, "flow", time.Minute)
			return err == nil && taken
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("should use SETNX on redis", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		cacher := NewRedisCache(db, "lock:")

		mock.ExpectSetNX("lock:flow", []byte{}, 30*time.Second).SetVal(true)
		mock.ExpectSetNX("lock:flow", []byte{}, 30*time.Second).SetVal(false)

		taken, err := cacher.Acquire(ctx, "flow", 30*time.Second)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = cacher.Acquire(ctx, "flow", 30*time.Second)
		require.NoError(t, err)
		assert.False(t, taken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
