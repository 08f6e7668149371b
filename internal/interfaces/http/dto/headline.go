// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strings"
	"time"

	"newsletter-headline-api/internal/domain/entity"
)

// ConstraintsRequest 生成约束，缺省字段取默认值
type ConstraintsRequest struct {
	MaxLength      *int  `json:"max_length"`
	AvoidClickbait *bool `json:"avoid_clickbait"`
	RequireNumbers *bool `json:"require_numbers"`
}

// GenerateRequest POST /generate 请求体
type GenerateRequest struct {
	NewsletterText  string              `json:"newsletter_text" binding:"required"`
	AudienceProfile string              `json:"audience_profile"`
	Goal            string              `json:"goal"`
	Tone            string              `json:"tone"`
	Provider        string              `json:"provider"`
	Model           string              `json:"model"`
	PastHeadlines   []string            `json:"past_headlines"`
	Constraints     *ConstraintsRequest `json:"constraints"`
}

// ToEntity 补齐默认约束
func (r *GenerateRequest) ToEntity() *entity.GenerationRequest {
	c := entity.DefaultConstraints()
	if r.Constraints != nil {
		if r.Constraints.MaxLength != nil && *r.Constraints.MaxLength > 0 {
			c.MaxLength = *r.Constraints.MaxLength
		}
		if r.Constraints.AvoidClickbait != nil {
			c.AvoidClickbait = *r.Constraints.AvoidClickbait
		}
		if r.Constraints.RequireNumbers != nil {
			c.RequireNumbers = *r.Constraints.RequireNumbers
		}
	}

	past := r.PastHeadlines
	if past == nil {
		past = []string{}
	}

	return &entity.GenerationRequest{
		NewsletterText:  r.NewsletterText,
		AudienceProfile: r.AudienceProfile,
		Goal:            r.Goal,
		Tone:            r.Tone,
		Provider:        strings.TrimSpace(r.Provider),
		Model:           strings.TrimSpace(r.Model),
		PastHeadlines:   past,
		Constraints:     c,
	}
}

// GenerationRecordResponse 生成历史条目
type GenerationRecordResponse struct {
	ID              string            `json:"id"`
	Provider        string            `json:"provider"`
	Model           string            `json:"model"`
	AudienceProfile string            `json:"audience_profile"`
	Goal            string            `json:"goal"`
	Tone            string            `json:"tone"`
	Headlines       []entity.Headline `json:"headlines"`
	TrendingTopics  []string          `json:"trending_topics"`
	CreatedAt       string            `json:"created_at"`
}

// GenerationRecordListResponse 生成历史列表
type GenerationRecordListResponse struct {
	Records []*GenerationRecordResponse `json:"records"`
}

// ToGenerationRecordListResponse 转换生成历史
func ToGenerationRecordListResponse(records []*entity.GenerationRecord) *GenerationRecordListResponse {
	out := make([]*GenerationRecordResponse, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		out = append(out, &GenerationRecordResponse{
			ID:              r.ID,
			Provider:        r.Provider,
			Model:           r.Model,
			AudienceProfile: r.AudienceProfile,
			Goal:            r.Goal,
			Tone:            r.Tone,
			Headlines:       r.Headlines,
			TrendingTopics:  r.TrendingTopics,
			CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &GenerationRecordListResponse{Records: out}
}
