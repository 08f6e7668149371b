//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"newsletter-headline-api/internal/application/headline"
	"newsletter-headline-api/internal/application/trends"
	"newsletter-headline-api/internal/application/usage"
	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/internal/domain/repository"
	"newsletter-headline-api/internal/infrastructure/llm"
	"newsletter-headline-api/internal/infrastructure/persistence/postgres"
	"newsletter-headline-api/internal/interfaces/http/handler"
	"newsletter-headline-api/internal/interfaces/http/router"
	"newsletter-headline-api/internal/submitter"
	"newsletter-headline-api/internal/workflow/chain"
	workflowport "newsletter-headline-api/internal/workflow/port"
)

// PostgresSet PostgreSQL 提供者集合（可选）
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	ProvideGenerationRecordRepository,
	ProvideLLMUsageEventRepository,
)

// RedisSet Redis 提供者集合（可选）
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	ProvideRateLimiter,
	ProvideTrendsCache,
	ProvideEventPublisher,
)

// TrendsSet 热点话题提供者集合
var TrendsSet = wire.NewSet(
	ProvideTrendsSource,
	ProvideTrendsFetcher,
	wire.Bind(new(headline.TopicFinder), new(*trends.Fetcher)),
)

// LLMSet LLM 与工作流提供者集合
var LLMSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(workflowport.ChatModelFactory), new(*llm.EinoFactory)),
	wire.Bind(new(headline.ProviderSettings), new(*llm.EinoFactory)),
	chain.NewHeadlineChain,
	wire.Bind(new(headline.ChainInvoker), new(*chain.HeadlineChain)),
	usage.NewLLMUsageRecorder,
)

// HeadlineSet 标题生成提供者集合
var HeadlineSet = wire.NewSet(
	headline.NewGenerator,
	wire.Bind(new(handler.HeadlineService), new(*headline.Generator)),
	usage.NewReporter,
	wire.Bind(new(handler.UsageReporter), new(*usage.Reporter)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideSubmitterClient,
	wire.Bind(new(submitter.Generator), new(*submitter.Client)),
	ProvideHealthHandler,
	handler.NewHeadlineHandler,
	handler.NewPageHandler,
	handler.NewUsageHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)

// InitializeApp 初始化整个应用
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		PostgresSet,
		RedisSet,
		TrendsSet,
		LLMSet,
		HeadlineSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL（用于 bootstrap）
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		ProvideRequiredPostgresClient,
		postgres.NewTxManager,
		wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}
