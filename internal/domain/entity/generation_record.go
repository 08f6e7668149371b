package entity

import "time"

// GenerationRecord 一次生成的持久化记录
type GenerationRecord struct {
	ID              string     `json:"id"`
	Provider        string     `json:"provider"`
	Model           string     `json:"model"`
	AudienceProfile string     `json:"audience_profile"`
	Goal            string     `json:"goal"`
	Tone            string     `json:"tone"`
	Headlines       []Headline `json:"headlines"`
	TrendingTopics  []string   `json:"trending_topics"`
	CreatedAt       time.Time  `json:"created_at"`
}
