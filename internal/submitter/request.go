package submitter

import (
	"strings"

	"newsletter-headline-api/internal/domain/entity"
)

// FormValues 表单中读取的五个字段，缺失的字段为空串
type FormValues struct {
	NewsletterText  string
	AudienceProfile string
	Goal            string
	Tone            string
	Provider        string
}

// FormGetter 按字段名读取表单值，url.Values 满足该接口
type FormGetter interface {
	Get(key string) string
}

// 表单字段名
const (
	FieldNewsletterText  = "newsletter_text"
	FieldAudienceProfile = "audience_profile"
	FieldGoal            = "goal"
	FieldTone            = "tone"
	FieldProvider        = "provider"
)

// ReadForm 从表单读取字段值
func ReadForm(form FormGetter) FormValues {
	return FormValues{
		NewsletterText:  form.Get(FieldNewsletterText),
		AudienceProfile: form.Get(FieldAudienceProfile),
		Goal:            form.Get(FieldGoal),
		Tone:            form.Get(FieldTone),
		Provider:        strings.TrimSpace(form.Get(FieldProvider)),
	}
}

// BuildRequest 根据表单构造生成请求。
// model 只由 provider 决定，past_headlines 发送时总为空，constraints 固定为默认值。
func BuildRequest(form FormValues) *entity.GenerationRequest {
	return &entity.GenerationRequest{
		NewsletterText:  form.NewsletterText,
		AudienceProfile: form.AudienceProfile,
		Goal:            form.Goal,
		Tone:            form.Tone,
		Provider:        form.Provider,
		Model:           entity.ModelForProvider(form.Provider),
		PastHeadlines:   []string{},
		Constraints:     entity.DefaultConstraints(),
	}
}
