// Package trends 根据正文关键词挑选相关的热点话题
package trends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/pkg/logger"
	"newsletter-headline-api/pkg/metrics"
)

// Source 热点话题来源
type Source interface {
	Name() string
	Trending(ctx context.Context, geo string) ([]string, error)
}

// Cache Read-Through 缓存
type Cache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) ([]string, error)) ([]string, error)
}

type Options struct {
	Enabled    bool
	Geo        string
	CacheTTL   time.Duration
	Timeout    time.Duration
	PerKeyword int
	Fallback   int
}

// OptionsFromConfig 补齐默认值
func OptionsFromConfig(cfg *config.TrendsConfig) Options {
	o := Options{
		Enabled:    cfg.Enabled,
		Geo:        strings.TrimSpace(cfg.Geo),
		CacheTTL:   cfg.CacheTTL,
		Timeout:    cfg.Timeout,
		PerKeyword: cfg.PerKeyword,
		Fallback:   cfg.Fallback,
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Minute
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.PerKeyword <= 0 {
		o.PerKeyword = 3
	}
	if o.Fallback < 0 {
		o.Fallback = 0
	}
	return o
}

type Fetcher struct {
	source Source
	cache  Cache
	opts   Options
}

// NewFetcher cache 可为 nil，此时每次直接访问 source
func NewFetcher(source Source, cache Cache, opts Options) *Fetcher {
	return &Fetcher{source: source, cache: cache, opts: opts}
}

// TopicsFor 返回与关键词相关的热点话题；任何错误都降级为空列表
func (f *Fetcher) TopicsFor(ctx context.Context, keywords []string) []string {
	if f == nil || f.source == nil || !f.opts.Enabled || len(keywords) == 0 {
		return []string{}
	}

	trending, err := f.trending(ctx)
	if err != nil {
		metrics.TrendsFetchTotal.WithLabelValues(f.source.Name(), "error").Inc()
		logger.Error(ctx, "failed to fetch trending topics", err, "source", f.source.Name())
		return []string{}
	}
	metrics.TrendsFetchTotal.WithLabelValues(f.source.Name(), "success").Inc()

	return SelectTopics(trending, keywords, f.opts.PerKeyword, f.opts.Fallback)
}

func (f *Fetcher) trending(ctx context.Context) ([]string, error) {
	load := func(ctx context.Context) ([]string, error) {
		ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
		return f.source.Trending(ctx, f.opts.Geo)
	}
	if f.cache == nil {
		return load(ctx)
	}
	return f.cache.GetOrLoad(ctx, cacheKey(f.source.Name(), f.opts.Geo), f.opts.CacheTTL, load)
}

func cacheKey(source, geo string) string {
	if geo == "" {
		geo = "global"
	}
	return fmt.Sprintf("trends:%s:%s", source, strings.ToLower(geo))
}

// SelectTopics 每个关键词最多取 perKeyword 个包含该词的话题（不区分大小写），
// 结果去重并保持首次出现顺序；无匹配时取前 fallback 个。
func SelectTopics(trending, keywords []string, perKeyword, fallback int) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		picked := 0
		for _, topic := range trending {
			if picked >= perKeyword {
				break
			}
			if !strings.Contains(strings.ToLower(topic), kw) {
				continue
			}
			picked++
			key := strings.ToLower(topic)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, topic)
		}
	}

	if len(out) > 0 {
		return out
	}
	for _, topic := range trending {
		if len(out) >= fallback {
			break
		}
		key := strings.ToLower(strings.TrimSpace(topic))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, topic)
	}
	return out
}
