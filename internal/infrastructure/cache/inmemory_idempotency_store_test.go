package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("marks new event as processed", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "event-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("returns false for already processed event", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "event-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "event-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("allows reprocessing after expiration", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "event-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, "event-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown-event")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "processed-event", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(ctx, "processed-event")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := newInMemoryIdempotencyStore(5 * time.Millisecond)
	defer store.Close()

	_, err := store.MarkProcessed(context.Background(), "short", time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return store.Size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestRedisIdempotencyStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisIdempotencyStore(client, "")
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "evt", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "evt", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := store.IsProcessed(ctx, "evt")
	require.NoError(t, err)
	assert.True(t, processed)
	assert.True(t, mr.Exists("erp:event:idempotency:evt"))

	mr.FastForward(2 * time.Minute)

	processed, err = store.IsProcessed(ctx, "evt")
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, store.Close())
	assert.NoError(t, client.Ping(ctx).Err(), "store must not close the shared client")
}

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without host", func(t *testing.T) {
		client, err := NewRedisClient(ctx, config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("connects to server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client, err := NewRedisClient(ctx, config.RedisConfig{Host: mr.Host(), Port: mustPort(t, mr)})
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("fails when unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		port := mustPort(t, mr)
		mr.Close()

		_, err := NewRedisClient(ctx, config.RedisConfig{Host: "127.0.0.1", Port: port})
		assert.Error(t, err)
	})
}

func TestNewIdempotencyStore(t *testing.T) {
	mem := NewIdempotencyStore(nil, zap.NewNop())
	defer mem.Close()
	assert.IsType(t, &InMemoryIdempotencyStore{}, mem)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	assert.IsType(t, &RedisIdempotencyStore{}, NewIdempotencyStore(client, zap.NewNop()))
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
