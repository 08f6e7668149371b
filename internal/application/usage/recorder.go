// Package usage 记录 LLM token 流水
package usage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/domain/repository"
	"newsletter-headline-api/internal/domain/service"
	"newsletter-headline-api/pkg/logger"
)

// 写流水的超时，不继承请求的取消
const recordTimeout = 3 * time.Second

type LLMUsageRecorder struct {
	usageRepo repository.LLMUsageEventRepository
}

func NewLLMUsageRecorder(usageRepo repository.LLMUsageEventRepository) *LLMUsageRecorder {
	return &LLMUsageRecorder{usageRepo: usageRepo}
}

func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) error {
	if r == nil || r.usageRepo == nil {
		return nil
	}
	if in.PromptTokens < 0 || in.CompletionTokens < 0 {
		return fmt.Errorf("invalid token usage")
	}
	if in.PromptTokens+in.CompletionTokens == 0 {
		return nil
	}

	evt := &entity.LLMUsageEvent{
		Provider:         strings.TrimSpace(in.Provider),
		Model:            strings.TrimSpace(in.Model),
		Workflow:         strings.TrimSpace(in.Workflow),
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		DurationMs:       in.DurationMs,
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := r.usageRepo.Create(writeCtx, evt); err != nil {
		logger.Warn(ctx, "failed to record llm usage", "provider", evt.Provider, "error", err.Error())
		return err
	}
	return nil
}
