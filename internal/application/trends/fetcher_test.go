package trends

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/internal/config"
)

type stubSource struct {
	topics []string
	err    error
	calls  int
	geo    string
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Trending(_ context.Context, geo string) ([]string, error) {
	s.calls++
	s.geo = geo
	return s.topics, s.err
}

type mapCache struct {
	data map[string][]string
}

func (c *mapCache) GetOrLoad(ctx context.Context, key string, _ time.Duration, loader func(context.Context) ([]string, error)) ([]string, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	v, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	c.data[key] = v
	return v, nil
}

func testOptions() Options {
	return OptionsFromConfig(&config.TrendsConfig{Enabled: true, Geo: "US", Fallback: 5})
}

func TestSelectTopicsMatchesPerKeyword(t *testing.T) {
	t.Parallel()
	trending := []string{"AI agents at work", "ai productivity tools", "World Cup", "AI chips", "AI safety", "Remote work"}

	got := SelectTopics(trending, []string{"AI", "work"}, 3, 5)
	assert.Equal(t, []string{"AI agents at work", "ai productivity tools", "AI chips", "Remote work"}, got)
}

func TestSelectTopicsFallback(t *testing.T) {
	t.Parallel()
	trending := []string{"One", "Two", "two", "Three", "Four", "Five", "Six"}
	assert.Equal(t, []string{"One", "Two", "Three", "Four", "Five"}, SelectTopics(trending, []string{"zzz"}, 3, 5))
	assert.Equal(t, []string{}, SelectTopics(nil, []string{"x"}, 3, 5))
	assert.Equal(t, []string{}, SelectTopics(trending, []string{"zzz"}, 3, 0))
}

func TestTopicsForUsesCache(t *testing.T) {
	t.Parallel()
	src := &stubSource{topics: []string{"Quantum computing news", "Election results"}}
	cache := &mapCache{data: map[string][]string{}}
	f := NewFetcher(src, cache, testOptions())

	ctx := context.Background()
	assert.Equal(t, []string{"Quantum computing news"}, f.TopicsFor(ctx, []string{"quantum"}))
	assert.Equal(t, []string{"Election results"}, f.TopicsFor(ctx, []string{"election"}))
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "US", src.geo)
	assert.Contains(t, cache.data, "trends:stub:us")
}

func TestTopicsForDegradesToEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := NewFetcher(&stubSource{err: errors.New("feed down")}, nil, testOptions())
	assert.Equal(t, []string{}, f.TopicsFor(ctx, []string{"quantum"}))

	disabled := testOptions()
	disabled.Enabled = false
	src := &stubSource{topics: []string{"x"}}
	assert.Equal(t, []string{}, NewFetcher(src, nil, disabled).TopicsFor(ctx, []string{"x"}))
	assert.Zero(t, src.calls)

	assert.Equal(t, []string{}, NewFetcher(src, nil, testOptions()).TopicsFor(ctx, nil))

	var nilFetcher *Fetcher
	assert.Equal(t, []string{}, nilFetcher.TopicsFor(ctx, []string{"x"}))
}

func TestOptionsFromConfigDefaults(t *testing.T) {
	t.Parallel()
	o := OptionsFromConfig(&config.TrendsConfig{Fallback: -1})
	assert.Equal(t, 30*time.Minute, o.CacheTTL)
	assert.Equal(t, 5*time.Second, o.Timeout)
	assert.Equal(t, 3, o.PerKeyword)
	assert.Equal(t, 0, o.Fallback)
	require.False(t, o.Enabled)
}
