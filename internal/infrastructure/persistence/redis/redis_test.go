package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/internal/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewClient(context.Background(), &config.RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestHealthCheck(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, client.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, client.HealthCheck(context.Background()))
}

func TestCacheGetOrLoadCoalescesLoads(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewJSONCache[[]string](client, "trends")
	ctx := context.Background()

	var loads atomic.Int32
	loader := func(context.Context) ([]string, error) {
		loads.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []string{"AI agents", "World Cup"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			topics, err := cache.GetOrLoad(ctx, "trends:US", time.Minute, loader)
			assert.NoError(t, err)
			assert.Equal(t, []string{"AI agents", "World Cup"}, topics)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), loads.Load())

	raw, err := mr.Get("trends:US")
	require.NoError(t, err)
	assert.JSONEq(t, `["AI agents","World Cup"]`, raw)
	assert.Greater(t, mr.TTL("trends:US"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("trends:US"))
}

func TestCacheLoaderErrorIsNotCached(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewJSONCache[[]string](client, "trends")

	_, err := cache.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]string, error) {
		return nil, errors.New("feed down")
	})
	require.Error(t, err)
	assert.False(t, mr.Exists("k"))
}

func TestCacheReloadsUndecodableEntry(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewJSONCache[[]string](client, "trends")
	require.NoError(t, mr.Set("k", "not json"))

	got, err := cache.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, got)
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	client, mr := newTestClient(t)
	limiter := NewRateLimiter(client)
	now := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()
	key := "ratelimit:/generate:10.0.0.1"

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := mr.ZMembers(key)
	require.NoError(t, err)
	assert.Len(t, members, 3, "rejected requests are not recorded")

	now = now.Add(61 * time.Second)
	ok, err = limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	members, err = mr.ZMembers(key)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}
