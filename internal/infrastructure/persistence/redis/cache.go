package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"newsletter-headline-api/pkg/logger"
	"newsletter-headline-api/pkg/metrics"
)

var cacheTracer = otel.Tracer("redis.cache")

// JSONCache 以 JSON 存储 T 的 Read-Through 缓存
type JSONCache[T any] struct {
	client *Client
	name   string
	group  singleflight.Group
}

// NewJSONCache name 用作指标标签
func NewJSONCache[T any](client *Client, name string) *JSONCache[T] {
	return &JSONCache[T]{client: client, name: name}
}

// GetOrLoad 未命中时调用 loader 并写回，同 key 的并发加载合并为一次。
// 加载失败不写缓存；缓存内容无法解码时按未命中处理。
func (c *JSONCache[T]) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := cacheTracer.Start(ctx, "cache.GetOrLoad",
		trace.WithAttributes(
			attribute.String("cache.name", c.name),
			attribute.String("cache.key", key),
		))
	defer span.End()

	cached, ok, err := c.lookup(ctx, key)
	if err != nil {
		span.RecordError(err)
		metrics.CacheLookupTotal.WithLabelValues(c.name, "error").Inc()
		return cached, err
	}
	if ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		metrics.CacheLookupTotal.WithLabelValues(c.name, "hit").Inc()
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))
	metrics.CacheLookupTotal.WithLabelValues(c.name, "miss").Inc()

	// 合并后的加载不受单个调用方取消的影响
	loadCtx := context.WithoutCancel(ctx)
	result, err, shared := c.group.Do(key, func() (interface{}, error) {
		if v, ok, _ := c.lookup(loadCtx, key); ok {
			return v, nil
		}
		v, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s cache value: %w", c.name, err)
		}
		if err := c.client.rdb.Set(loadCtx, key, raw, ttl).Err(); err != nil {
			logger.Warn(loadCtx, "cache write failed", "cache", c.name, "key", key, "error", err.Error())
		}
		return v, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	if err != nil {
		span.RecordError(err)
		return cached, err
	}
	return result.(T), nil
}

func (c *JSONCache[T]) lookup(ctx context.Context, key string) (T, bool, error) {
	var v T
	raw, err := c.client.rdb.Get(ctx, key).Bytes()
	if IsNil(err) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn(ctx, "dropping undecodable cache entry", "cache", c.name, "key", key)
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}
