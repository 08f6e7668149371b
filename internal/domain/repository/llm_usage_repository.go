package repository

import (
	"context"
	"time"

	"newsletter-headline-api/internal/domain/entity"
)

// LLMUsageEventRepository token 流水
type LLMUsageEventRepository interface {
	Create(ctx context.Context, event *entity.LLMUsageEvent) error
	// SummarizeByProvider 汇总 [since, until) 内的流水，按 provider、model 排序
	SummarizeByProvider(ctx context.Context, since, until time.Time) ([]entity.ProviderUsage, error)
}
