package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires Redis running on localhost:6379; tests that need it skip
// when it is not there.
const testRedisAddr = "localhost:6379"

func setupTestCache(t *testing.T, prefix string) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}

	cleanup := func() {
		var cursor uint64
		for {
			keys, next, err := client.Scan(ctx, cursor, prefix+"*", 100).Result()
			if err != nil {
				return
			}
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
			cursor = next
			if cursor == 0 {
				return
			}
		}
	}
	cleanup()
	t.Cleanup(func() {
		cleanup()
		client.Close()
	})

	return New(client, prefix, 5*time.Minute)
}

type statsPayload struct {
	Completed int64   `json:"completed"`
	Rate      float64 `json:"rate"`
}

func TestCache_GetSetDelete(t *testing.T) {
	c := setupTestCache(t, "taskmanager-test:")
	ctx := context.Background()

	var missed statsPayload
	hit, err := c.Get(ctx, "user-1", &missed)
	require.NoError(t, err)
	assert.False(t, hit, "expected a miss on an empty cache")

	stored := statsPayload{Completed: 4, Rate: 80}
	require.NoError(t, c.Set(ctx, "user-1", stored))

	var fetched statsPayload
	hit, err = c.Get(ctx, "user-1", &fetched)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, stored, fetched)

	require.NoError(t, c.Delete(ctx, "user-1"))
	hit, err = c.Get(ctx, "user-1", &fetched)
	require.NoError(t, err)
	assert.False(t, hit, "expected a miss after delete")

	snap := c.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(2), snap.Misses)
	assert.Equal(t, uint64(1), snap.Sets)
	assert.Equal(t, uint64(1), snap.Deletes)
}

func TestCache_NilClientIsPassThrough(t *testing.T) {
	c := New(nil, "test:", time.Minute)
	ctx := context.Background()

	assert.False(t, c.Enabled())

	require.NoError(t, c.Set(ctx, "k", statsPayload{Completed: 1}))
	require.NoError(t, c.Delete(ctx, "k"))

	var out statsPayload
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit, "a disabled cache always misses")

	snap := c.Snapshot()
	assert.Zero(t, snap.Hits)
	assert.Zero(t, snap.Sets)
}
