package dto

import (
	"time"

	"newsletter-headline-api/internal/application/usage"
)

// ProviderUsageResponse 单个 provider + model 的汇总
type ProviderUsageResponse struct {
	Provider         string  `json:"provider"`
	Model            string  `json:"model"`
	Calls            int64   `json:"calls"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	TotalTokens      int64   `json:"total_tokens"`
	AvgDurationMs    float64 `json:"avg_duration_ms"`
}

// UsageReportResponse token 用量报告
type UsageReportResponse struct {
	Since       string                  `json:"since"`
	Until       string                  `json:"until"`
	TotalTokens int64                   `json:"total_tokens"`
	Providers   []ProviderUsageResponse `json:"providers"`
}

func ToUsageReportResponse(r *usage.Report) *UsageReportResponse {
	out := &UsageReportResponse{
		Since:       r.Since.UTC().Format(time.RFC3339),
		Until:       r.Until.UTC().Format(time.RFC3339),
		TotalTokens: r.TotalTokens(),
		Providers:   make([]ProviderUsageResponse, 0, len(r.Providers)),
	}
	for _, p := range r.Providers {
		out.Providers = append(out.Providers, ProviderUsageResponse{
			Provider:         p.Provider,
			Model:            p.Model,
			Calls:            p.Calls,
			PromptTokens:     p.PromptTokens,
			CompletionTokens: p.CompletionTokens,
			TotalTokens:      p.TotalTokens(),
			AvgDurationMs:    p.AvgDurationMs,
		})
	}
	return out
}
