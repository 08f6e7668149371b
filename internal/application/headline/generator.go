// Package headline 编排标题生成：关键词 → 热点话题 → LLM → 解析 → 历史记录
package headline

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/domain/repository"
	wfmodel "newsletter-headline-api/internal/workflow/model"
	"newsletter-headline-api/internal/workflow/node"
	apperrors "newsletter-headline-api/pkg/errors"
	"newsletter-headline-api/pkg/logger"
	"newsletter-headline-api/pkg/metrics"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
	persistTimeout     = 3 * time.Second
)

// ChainInvoker 标题生成工作流
type ChainInvoker interface {
	Invoke(ctx context.Context, in *wfmodel.HeadlineGenerateInput) (*schema.Message, error)
}

// TopicFinder 热点话题查询，失败时返回空列表
type TopicFinder interface {
	TopicsFor(ctx context.Context, keywords []string) []string
}

// ProviderSettings 读取 provider 的生成参数
type ProviderSettings interface {
	Settings(name string) (config.ProviderConfig, bool)
}

// EventPublisher 投递生成完成事件
type EventPublisher interface {
	PublishHeadlineGenerated(ctx context.Context, rec *entity.GenerationRecord) error
}

type Generator struct {
	chain    ChainInvoker
	trends   TopicFinder
	settings ProviderSettings
	records  repository.GenerationRecordRepository
	events   EventPublisher

	defaultProvider string
	headlineCount   int
	maxKeywords     int
}

// NewGenerator trends、records 与 events 可为 nil；events 只在 records 可用时生效
func NewGenerator(chain ChainInvoker, trends TopicFinder, settings ProviderSettings, records repository.GenerationRecordRepository, events EventPublisher, cfg *config.Config) *Generator {
	return &Generator{
		chain:           chain,
		trends:          trends,
		settings:        settings,
		records:         records,
		events:          events,
		defaultProvider: cfg.LLM.DefaultProvider,
		headlineCount:   cfg.Generation.HeadlineCount,
		maxKeywords:     cfg.Generation.MaxKeywords,
	}
}

// Generate 生成标题；LLM 调用失败返回 ErrLLMCallFailed，输出无法解析时返回空标题列表
func (g *Generator) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	if req == nil || strings.TrimSpace(req.NewsletterText) == "" {
		return nil, apperrors.ErrInvalidParam.WithDetail("newsletter_text is required")
	}

	provider := strings.TrimSpace(req.Provider)
	if provider == "" {
		provider = g.defaultProvider
	}
	modelName, err := ResolveModel(g.settings, provider, req.Model)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx = logger.WithContext(ctx, logger.ProviderKey, provider)

	keywords := ExtractKeywords(req.NewsletterText, g.maxKeywords)
	topics := []string{}
	if g.trends != nil {
		topics = g.trends.TopicsFor(ctx, keywords)
	}
	logger.Debug(ctx, "headline generation started", "keywords", keywords, "trending_topics", len(topics))

	in := g.buildInput(req, provider, modelName, topics)
	msg, err := g.chain.Invoke(ctx, in)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(provider, "error").Inc()
		logger.Error(ctx, "headline generation failed", err, "model", modelName)
		if apperrors.IsAppError(err) {
			return nil, apperrors.AsAppError(err)
		}
		return nil, apperrors.ErrLLMCallFailed.WithError(err).WithSuggestions(node.SuggestionsFor(err)...)
	}

	headlines, perr := ParseHeadlines(msg.Content)
	status := "success"
	if perr != nil {
		status = "unparsed"
		logger.Error(ctx, "failed to parse llm response as json", perr, "model", modelName)
		headlines = []entity.Headline{}
	}

	metrics.GenerationTotal.WithLabelValues(provider, status).Inc()
	metrics.GenerationDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	metrics.HeadlinesPerGeneration.Observe(float64(len(headlines)))

	resp := &entity.GenerationResponse{Headlines: headlines, TrendingTopics: topics}
	g.record(ctx, req, provider, modelName, resp)
	return resp, nil
}

func (g *Generator) buildInput(req *entity.GenerationRequest, provider, modelName string, topics []string) *wfmodel.HeadlineGenerateInput {
	constraints := req.Constraints
	if constraints.MaxLength <= 0 {
		constraints.MaxLength = entity.DefaultMaxLength
	}

	temperature := float32(defaultTemperature)
	maxTokens := defaultMaxTokens
	if g.settings != nil {
		if s, ok := g.settings.Settings(provider); ok {
			if s.Temperature > 0 {
				temperature = float32(s.Temperature)
			}
			if s.MaxTokens > 0 {
				maxTokens = s.MaxTokens
			}
		}
	}

	return &wfmodel.HeadlineGenerateInput{
		NewsletterText:  req.NewsletterText,
		AudienceProfile: req.AudienceProfile,
		Goal:            req.Goal,
		Tone:            req.Tone,
		PastHeadlines:   req.PastHeadlines,
		TrendingTopics:  topics,
		MaxLength:       constraints.MaxLength,
		AvoidClickbait:  constraints.AvoidClickbait,
		RequireNumbers:  constraints.RequireNumbers,
		HeadlineCount:   g.headlineCount,
		Provider:        provider,
		Model:           modelName,
		Temperature:     &temperature,
		MaxTokens:       &maxTokens,
	}
}

// record 写历史，写入成功后投递事件；失败只记日志
func (g *Generator) record(ctx context.Context, req *entity.GenerationRequest, provider, modelName string, resp *entity.GenerationResponse) {
	if g.records == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	rec := &entity.GenerationRecord{
		Provider:        provider,
		Model:           modelName,
		AudienceProfile: req.AudienceProfile,
		Goal:            req.Goal,
		Tone:            req.Tone,
		Headlines:       resp.Headlines,
		TrendingTopics:  resp.TrendingTopics,
	}
	if err := g.records.Create(ctx, rec); err != nil {
		logger.Error(ctx, "failed to persist generation record", err)
		return
	}
	if g.events != nil {
		if err := g.events.PublishHeadlineGenerated(ctx, rec); err != nil {
			logger.Warn(ctx, "failed to publish generation event", "error", err.Error())
		}
	}
}

// Recent 返回最近的生成记录；未启用历史时返回空列表
func (g *Generator) Recent(ctx context.Context, limit int) ([]*entity.GenerationRecord, error) {
	if g.records == nil {
		return []*entity.GenerationRecord{}, nil
	}
	records, err := g.records.ListRecent(ctx, repository.ClampLimit(limit))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list generation records")
	}
	return records, nil
}
