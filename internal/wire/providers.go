// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"newsletter-headline-api/internal/application/headline"
	"newsletter-headline-api/internal/application/trends"
	"newsletter-headline-api/internal/application/usage"
	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/internal/domain/repository"
	"newsletter-headline-api/internal/infrastructure/messaging"
	"newsletter-headline-api/internal/infrastructure/persistence/postgres"
	"newsletter-headline-api/internal/infrastructure/persistence/redis"
	infratrends "newsletter-headline-api/internal/infrastructure/trends"
	"newsletter-headline-api/internal/interfaces/http/handler"
	"newsletter-headline-api/internal/interfaces/http/middleware"
	"newsletter-headline-api/internal/interfaces/http/router"
	"newsletter-headline-api/internal/submitter"
	"newsletter-headline-api/pkg/logger"
	"newsletter-headline-api/pkg/metrics"
)

// App 服务运行所需的顶层依赖
type App struct {
	Router        *router.Router
	UsageRecorder *usage.LLMUsageRecorder
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient  *postgres.Client
	TxManager repository.Transactor
}

// ProvidePostgresClient 未启用时返回 nil；启用但连接失败时返回错误
func ProvidePostgresClient(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	if !cfg.Database.Postgres.Enabled {
		logger.Info(ctx, "postgres disabled, generation history off")
		return nil, func() {}, nil
	}
	client, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	if err := metrics.RegisterDBStats(client.DB(), cfg.Database.Postgres.Database); err != nil {
		logger.Warn(ctx, "failed to register db stats collector", "error", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideRequiredPostgresClient bootstrap 使用，忽略 enabled 开关
func ProvideRequiredPostgresClient(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func ProvideGenerationRecordRepository(client *postgres.Client) repository.GenerationRecordRepository {
	if client == nil {
		return nil
	}
	return postgres.NewGenerationRecordRepository(client)
}

func ProvideLLMUsageEventRepository(client *postgres.Client) repository.LLMUsageEventRepository {
	if client == nil {
		return nil
	}
	return postgres.NewLLMUsageEventRepository(client)
}

// ProvideRedisClient 未启用时返回 nil
func ProvideRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled {
		logger.Info(ctx, "redis disabled, using in-memory rate limiter and uncached trends")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideRateLimiter Redis 可用时使用滑动窗口限流，否则进程内限流
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return middleware.NewLocalRateLimiter()
	}
	return redis.NewRateLimiter(client)
}

func ProvideTrendsCache(client *redis.Client) trends.Cache {
	if client == nil {
		return nil
	}
	return redis.NewJSONCache[[]string](client, "trends")
}

// ProvideEventPublisher 需要 Redis 且 events.enabled
func ProvideEventPublisher(ctx context.Context, client *redis.Client, cfg *config.Config) headline.EventPublisher {
	if !cfg.Events.Enabled {
		return nil
	}
	if client == nil {
		logger.Warn(ctx, "events enabled but redis disabled, generation events off")
		return nil
	}
	return messaging.NewProducer(client.Redis(), messaging.Stream(cfg.Events.Stream), cfg.Events.MaxLen)
}

func ProvideTrendsSource(cfg *config.Config) trends.Source {
	timeout := cfg.Trends.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return infratrends.NewGoogleTrendsRSS(cfg.Trends.FeedURL, hc)
}

func ProvideTrendsFetcher(source trends.Source, cache trends.Cache, cfg *config.Config) *trends.Fetcher {
	return trends.NewFetcher(source, cache, trends.OptionsFromConfig(&cfg.Trends))
}

// ProvideSubmitterClient 表单页调用本服务 /generate 的客户端
func ProvideSubmitterClient(cfg *config.Config) *submitter.Client {
	return submitter.NewClient(cfg.SubmitterBaseURL())
}

// ProvideHealthHandler 只探测已启用的依赖
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rdb *redis.Client) *handler.HealthHandler {
	deps := map[string]handler.HealthChecker{}
	if pg != nil {
		deps["postgres"] = pg
	}
	if rdb != nil {
		deps["redis"] = rdb
	}
	return handler.NewHealthHandler(cfg.App.Version, deps)
}
