package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisSnapshotCacheRoundTrip(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisSnapshotCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, 0, []byte(`{"users":3}`)))
	data, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"users":3}`, string(data))
	assert.Equal(t, time.Minute, mr.TTL(DashboardKey))

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSnapshotCacheExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisSnapshotCache(client, time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, []byte("x")))
	mr.FastForward(2 * time.Second)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSnapshotCacheDropsSnapshotFromOldGeneration(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisSnapshotCache(client, time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, gen)

	// a write invalidates while the snapshot is being computed
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, gen, []byte(`{"users":3}`)))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	gen, err = c.Generation(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gen)
	require.NoError(t, c.Set(ctx, gen, []byte(`{"users":4}`)))

	data, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"users":4}`, string(data))
}

func TestRedisSnapshotCacheReportsFaults(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisSnapshotCache(client, time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background())
	assert.Error(t, err)
	_, err = c.Generation(context.Background())
	assert.Error(t, err)
	assert.Error(t, c.Set(context.Background(), 0, []byte("x")))
}

func TestNewRedisClient(t *testing.T) {
	mr, _ := setupTestRedis(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	client.Close()
}
