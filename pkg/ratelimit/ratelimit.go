// Package ratelimit caps how many requests a client can make to one
// route within a period. Keys are opaque, callers combine the route and
// the client address.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Limiter interface {
	// Allow reports whether one more request under key fits the limit
	Allow(ctx context.Context, key string) (bool, error)
	Close() error
}

// Memory is a token bucket per key. Buckets of idle keys expire so the
// visitor set doesn't grow forever.
type Memory struct {
	mu       sync.Mutex
	visitors *ttlcache.Cache
	every    rate.Limit
	burst    int
}

// NewMemory allows bursts of requests and refills one token every
// period/requests
func NewMemory(requests int, period time.Duration) (*Memory, error) {
	if requests <= 0 || period <= 0 {
		return nil, errors.New("requests and period must be bigger than 0")
	}

	visitors := ttlcache.NewCache()
	// An idle bucket is full again after one period, dropping it is lossless
	if err := visitors.SetTTL(period); err != nil {
		return nil, fmt.Errorf("failed to set visitor ttl, %w", err)
	}

	return &Memory{
		visitors: visitors,
		every:    rate.Every(period / time.Duration(requests)),
		burst:    requests,
	}, nil
}

func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var limiter *rate.Limiter

	v, err := m.visitors.Get(key)
	switch {
	case err == nil:
		limiter = v.(*rate.Limiter)
	case errors.Is(err, ttlcache.ErrNotFound):
		limiter = rate.NewLimiter(m.every, m.burst)
		if err := m.visitors.Set(key, limiter); err != nil {
			return false, fmt.Errorf("failed to store visitor, %w", err)
		}
	default:
		return false, fmt.Errorf("failed to load visitor, %w", err)
	}

	return limiter.Allow(), nil
}

func (m *Memory) Close() error {
	return m.visitors.Close()
}

// Redis is a fixed window counter shared by every instance of the API
type Redis struct {
	client   *redis.Client
	requests int64
	period   time.Duration
	prefix   string
	now      func() time.Time
}

func NewRedis(client *redis.Client, requests int, period time.Duration) (*Redis, error) {
	if requests <= 0 || period <= 0 {
		return nil, errors.New("requests and period must be bigger than 0")
	}

	return &Redis{
		client:   client,
		requests: int64(requests),
		period:   period,
		prefix:   "ratelimit",
		now:      time.Now,
	}, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	window := r.now().UnixNano() / int64(r.period)
	k := fmt.Sprintf("%s:%016x:%d", r.prefix, xxhash.Sum64String(key), window)

	pipe := r.client.TxPipeline()
	count := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, r.period)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count request, %w", err)
	}

	return count.Val() <= r.requests, nil
}

// Close is a no-op, the client is owned by whoever created it
func (r *Redis) Close() error {
	return nil
}
