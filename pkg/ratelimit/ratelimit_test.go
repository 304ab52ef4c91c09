package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	ctx := context.Background()

	l, err := NewMemory(2, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "/contacts/|1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "/contacts/|1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok, "third request within the period must be rejected")

	// Different route, same client
	ok, err = l.Allow(ctx, "/contacts/search|1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	// Same route, different client
	ok, err = l.Allow(ctx, "/contacts/|5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiterRefills(t *testing.T) {
	ctx := context.Background()

	l, err := NewMemory(1, 50*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	time.Sleep(80 * time.Millisecond)

	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewMemoryInvalid(t *testing.T) {
	_, err := NewMemory(0, time.Minute)
	assert.Error(t, err)
}

func TestRedisLimiter(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l, err := NewRedis(client, 2, time.Minute)
	require.NoError(t, err)

	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "/contacts/|1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.Allow(ctx, "/contacts/|1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "/contacts/|5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)

	// Next window starts from zero
	now = now.Add(time.Minute)
	ok, err = l.Allow(ctx, "/contacts/|1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiterUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l, err := NewRedis(client, 1, time.Minute)
	require.NoError(t, err)

	mr.Close()

	_, err = l.Allow(context.Background(), "k")
	assert.Error(t, err)
}
