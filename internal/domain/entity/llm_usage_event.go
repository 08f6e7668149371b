package entity

import "time"

// LLMUsageEvent 单次 LLM 调用的 token 流水
type LLMUsageEvent struct {
	ID               string    `json:"id"`
	Workflow         string    `json:"workflow"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	TokensPrompt     int       `json:"tokens_prompt"`
	TokensCompletion int       `json:"tokens_completion"`
	DurationMs       int       `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProviderUsage 一个时间段内某 provider + model 的调用汇总
type ProviderUsage struct {
	Provider         string
	Model            string
	Calls            int64
	PromptTokens     int64
	CompletionTokens int64
	AvgDurationMs    float64
}

func (u ProviderUsage) TotalTokens() int64 {
	return u.PromptTokens + u.CompletionTokens
}
