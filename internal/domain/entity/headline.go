// Package entity 定义领域实体
package entity

import "strings"

// Provider 生成后端标识
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// 各 Provider 对应的固定模型
const (
	ModelOpenAI    = "gpt-4"
	ModelAnthropic = "claude-3-opus-20240229"
	ModelGoogle    = "gemini-pro"
)

// 约束默认值
const (
	DefaultMaxLength      = 60
	DefaultAvoidClickbait = true
	DefaultRequireNumbers = false
)

// ModelForProvider 返回 provider 对应的模型；未知 provider 一律视为 google
func ModelForProvider(provider string) string {
	switch Provider(provider) {
	case ProviderOpenAI:
		return ModelOpenAI
	case ProviderAnthropic:
		return ModelAnthropic
	default:
		return ModelGoogle
	}
}

// KnownProvider 判断是否为受支持的 provider
func KnownProvider(provider string) bool {
	switch Provider(strings.TrimSpace(provider)) {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle:
		return true
	default:
		return false
	}
}

// Constraints 生成约束
type Constraints struct {
	MaxLength      int  `json:"max_length"`
	AvoidClickbait bool `json:"avoid_clickbait"`
	RequireNumbers bool `json:"require_numbers"`
}

// DefaultConstraints 返回固定的默认约束
func DefaultConstraints() Constraints {
	return Constraints{
		MaxLength:      DefaultMaxLength,
		AvoidClickbait: DefaultAvoidClickbait,
		RequireNumbers: DefaultRequireNumbers,
	}
}

// GenerationRequest 标题生成请求
type GenerationRequest struct {
	NewsletterText  string      `json:"newsletter_text" binding:"required"`
	AudienceProfile string      `json:"audience_profile"`
	Goal            string      `json:"goal"`
	Tone            string      `json:"tone"`
	Provider        string      `json:"provider"`
	Model           string      `json:"model"`
	PastHeadlines   []string    `json:"past_headlines"`
	Constraints     Constraints `json:"constraints"`
}

// Headline 单条生成的标题
type Headline struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Reason   string   `json:"reason"`
}

// GenerationResponse /generate 成功响应
type GenerationResponse struct {
	Headlines      []Headline `json:"headlines"`
	TrendingTopics []string   `json:"trending_topics"`
}
