package usage

import (
	"context"
	"time"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/domain/repository"
	apperrors "newsletter-headline-api/pkg/errors"
)

const (
	DefaultReportWindow = 24 * time.Hour
	MaxReportWindow     = 30 * 24 * time.Hour
)

// Report 一个时间窗口内的 token 汇总
type Report struct {
	Since     time.Time
	Until     time.Time
	Providers []entity.ProviderUsage
}

// TotalTokens 全部 provider 合计
func (r *Report) TotalTokens() int64 {
	var total int64
	for _, p := range r.Providers {
		total += p.TotalTokens()
	}
	return total
}

// Reporter 读取 token 流水汇总；repo 为 nil 时返回空报告
type Reporter struct {
	usageRepo repository.LLMUsageEventRepository
	now       func() time.Time
}

func NewReporter(usageRepo repository.LLMUsageEventRepository) *Reporter {
	return &Reporter{usageRepo: usageRepo, now: time.Now}
}

// Report window 为 0 取 DefaultReportWindow；负数或超过 MaxReportWindow 视为参数错误
func (r *Reporter) Report(ctx context.Context, window time.Duration) (*Report, error) {
	if window == 0 {
		window = DefaultReportWindow
	}
	if window < 0 {
		return nil, apperrors.ErrInvalidParam.WithDetail("window must be positive")
	}
	if window > MaxReportWindow {
		return nil, apperrors.ErrInvalidParam.WithDetail("window must not exceed " + MaxReportWindow.String())
	}

	until := r.now().UTC()
	rep := &Report{Since: until.Add(-window), Until: until, Providers: []entity.ProviderUsage{}}
	if r.usageRepo == nil {
		return rep, nil
	}

	providers, err := r.usageRepo.SummarizeByProvider(ctx, rep.Since, rep.Until)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to summarize llm usage")
	}
	rep.Providers = providers
	return rep, nil
}
