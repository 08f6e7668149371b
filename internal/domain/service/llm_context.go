package service

import (
	"context"
	"strings"
)

const unknownLabel = "unknown"

type llmCallKey struct{}

// llmCall 一次 LLM 调用的归属，供 callbacks 打指标与记流水
type llmCall struct {
	workflow string
	provider string
}

// WithWorkflowProvider 标记后续 LLM 调用所属的工作流与 provider；空值沿用外层标记
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	call := llmCallFrom(ctx)
	if w := strings.TrimSpace(workflow); w != "" {
		call.workflow = w
	}
	if p := strings.TrimSpace(provider); p != "" {
		call.provider = p
	}
	return context.WithValue(ctx, llmCallKey{}, call)
}

// WorkflowFromContext 未标记时返回 "unknown"
func WorkflowFromContext(ctx context.Context) string {
	return orUnknown(llmCallFrom(ctx).workflow)
}

// ProviderFromContext 未标记时返回 "unknown"
func ProviderFromContext(ctx context.Context) string {
	return orUnknown(llmCallFrom(ctx).provider)
}

func llmCallFrom(ctx context.Context) llmCall {
	if ctx == nil {
		return llmCall{}
	}
	call, _ := ctx.Value(llmCallKey{}).(llmCall)
	return call
}

func orUnknown(s string) string {
	if s == "" {
		return unknownLabel
	}
	return s
}
