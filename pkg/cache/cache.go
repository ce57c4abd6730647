// Package cache keeps the admin dashboard snapshot in Redis between writes.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// DashboardKey is the single key holding the encoded snapshot
	DashboardKey = "waste:dashboard:snapshot"
	// GenerationKey counts invalidations; a snapshot is only stored under the generation it was computed in
	GenerationKey = "waste:dashboard:generation"
)

// SnapshotCache stores one encoded dashboard snapshot.
// Callers read Generation before computing and pass it to Set, so a snapshot
// computed across an Invalidate is dropped instead of stored.
type SnapshotCache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, payload []byte) error
	Invalidate(ctx context.Context) error
}

// RedisSnapshotCache is the Redis-backed SnapshotCache
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisSnapshotCache wraps client with the given entry lifetime
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

// Get returns the cached payload; ok is false on a miss
func (c *RedisSnapshotCache) Get(ctx context.Context) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, DashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read dashboard cache: %w", err)
	}
	return data, true, nil
}

// Generation returns the current invalidation count
func (c *RedisSnapshotCache) Generation(ctx context.Context) (int64, error) {
	gen, err := readGeneration(ctx, c.client)
	if err != nil {
		return 0, fmt.Errorf("failed to read dashboard cache generation: %w", err)
	}
	return gen, nil
}

// Set stores payload until the TTL expires or the next invalidation.
// Nothing is written when the generation moved on since the caller read it.
func (c *RedisSnapshotCache) Set(ctx context.Context, generation int64, payload []byte) error {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, DashboardKey, payload, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	// an invalidation landed between WATCH and EXEC
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot and bumps the generation
func (c *RedisSnapshotCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, DashboardKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	return nil
}

func readGeneration(ctx context.Context, r redis.Cmdable) (int64, error) {
	gen, err := r.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Noop never holds anything; used when the cache is disabled
type Noop struct{}

func (Noop) Get(context.Context) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Generation(context.Context) (int64, error) { return 0, nil }
func (Noop) Set(context.Context, int64, []byte) error  { return nil }
func (Noop) Invalidate(context.Context) error          { return nil }
