package model

// HeadlineGenerateInput 标题生成工作流输入
type HeadlineGenerateInput struct {
	NewsletterText  string
	AudienceProfile string
	Goal            string
	Tone            string
	PastHeadlines   []string
	TrendingTopics  []string

	MaxLength      int
	AvoidClickbait bool
	RequireNumbers bool
	HeadlineCount  int

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}
