// Package messaging 通过 Redis Stream 投递领域事件
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"newsletter-headline-api/internal/domain/entity"
)

// Stream 名称
type Stream string

const DefaultHeadlineStream Stream = "stream:headline:generated"

const TypeHeadlineGenerated = "headline.generated"

// Stream 条目字段
const (
	fieldType = "type"
	fieldData = "data"
)

// Event 可投递的事件载荷
type Event interface {
	EventType() string
}

// Message 写入 Stream 的事件信封，载荷保持原始 JSON
type Message struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Payload   json.RawMessage   `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewMessage(id string, event Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", event.EventType(), err)
	}
	return &Message{
		ID:        id,
		Type:      event.EventType(),
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (m *Message) SetMetadata(key, value string) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]string)
	}
	m.Metadata[key] = value
}

// Decode 解析载荷，类型不符时报错
func (m *Message) Decode(event Event) error {
	if m.Type != event.EventType() {
		return fmt.Errorf("message %s has type %q, want %q", m.ID, m.Type, event.EventType())
	}
	return json.Unmarshal(m.Payload, event)
}

// MessageFromValues 从 XRANGE/XREAD 返回的条目字段还原信封
func MessageFromValues(values map[string]interface{}) (*Message, error) {
	data, ok := values[fieldData].(string)
	if !ok {
		return nil, fmt.Errorf("stream entry has no %q field", fieldData)
	}
	var msg Message
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return nil, fmt.Errorf("failed to decode stream entry: %w", err)
	}
	return &msg, nil
}

// HeadlineGenerated 一次生成完成；未持久化时 RecordID 为空
type HeadlineGenerated struct {
	RecordID        string            `json:"record_id,omitempty"`
	Provider        string            `json:"provider"`
	Model           string            `json:"model"`
	AudienceProfile string            `json:"audience_profile"`
	Goal            string            `json:"goal"`
	Tone            string            `json:"tone"`
	Headlines       []entity.Headline `json:"headlines"`
	TrendingTopics  []string          `json:"trending_topics"`
	CreatedAt       time.Time         `json:"created_at"`
}

func (HeadlineGenerated) EventType() string { return TypeHeadlineGenerated }

func headlineGeneratedFrom(rec *entity.GenerationRecord) *HeadlineGenerated {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &HeadlineGenerated{
		RecordID:        rec.ID,
		Provider:        rec.Provider,
		Model:           rec.Model,
		AudienceProfile: rec.AudienceProfile,
		Goal:            rec.Goal,
		Tone:            rec.Tone,
		Headlines:       rec.Headlines,
		TrendingTopics:  rec.TrendingTopics,
		CreatedAt:       created.UTC(),
	}
}
