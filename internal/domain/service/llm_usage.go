package service

import "context"

// LLMUsageInput 表示一次 LLM 调用的可观测数据。
type LLMUsageInput struct {
	Workflow string
	Provider string
	Model    string

	PromptTokens     int
	CompletionTokens int
	DurationMs       int
}

// LLMUsageRecorder 负责记录 LLM 使用量。
// 约定：实现应 best-effort，不阻塞主业务流程。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput) error
}
