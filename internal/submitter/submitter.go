// Package submitter 处理标题生成表单的提交：构造请求、调用 /generate、渲染结果区。
package submitter

import (
	"context"
	"fmt"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/pkg/logger"
	"newsletter-headline-api/pkg/metrics"
)

// Submitter 表单提交处理器
type Submitter struct {
	generator Generator
	view      *View
}

// New 创建提交处理器，view 为空时新建
func New(generator Generator, view *View) *Submitter {
	if view == nil {
		view = NewView()
	}
	return &Submitter{generator: generator, view: view}
}

// View 返回结果区
func (s *Submitter) View() *View {
	return s.view
}

// Submit 执行一次完整提交。任何失败都渲染为错误面板，不向外传播；
// 无论成功与否最后都会退出加载态。
func (s *Submitter) Submit(ctx context.Context, form FormValues) (outcome Outcome) {
	token := s.view.Begin()

	var (
		headlines []entity.Headline
		err       error
	)
	defer func() {
		if r := recover(); r != nil {
			headlines, err = nil, fmt.Errorf("unexpected failure: %v", r)
		}
		outcome = s.view.Finish(token, headlines, err)
		metrics.SubmissionTotal.WithLabelValues(string(outcome)).Inc()
		if err != nil {
			logger.Warn(ctx, "headline submission failed",
				"outcome", string(outcome),
				"error", err.Error(),
			)
		}
	}()

	if s.generator == nil {
		err = fmt.Errorf("generator not configured")
		return
	}

	req := BuildRequest(form)
	headlines, err = s.generator.Generate(ctx, req)
	return
}
