package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/pkg/logger"
)

var tracer = otel.Tracer("messaging")

const defaultMaxLen = 100000

// Producer 事件生产者
type Producer struct {
	client *redis.Client
	stream Stream
	maxLen int64
}

// NewProducer stream 为空时使用 DefaultHeadlineStream；Stream 按 maxLen 近似裁剪
func NewProducer(client *redis.Client, stream Stream, maxLen int64) *Producer {
	if stream == "" {
		stream = DefaultHeadlineStream
	}
	if maxLen <= 0 {
		maxLen = defaultMaxLen
	}
	return &Producer{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Publish 写入一条事件，返回 Stream 消息 ID
func (p *Producer) Publish(ctx context.Context, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(p.stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(p.stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			fieldType: msg.Type,
			fieldData: string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishHeadlineGenerated 投递一次生成结果；未持久化的记录 ID 为空
func (p *Producer) PublishHeadlineGenerated(ctx context.Context, rec *entity.GenerationRecord) error {
	if rec == nil {
		return nil
	}
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	msg, err := NewMessage(id, headlineGeneratedFrom(rec))
	if err != nil {
		return err
	}
	msg.SetMetadata("headline_count", strconv.Itoa(len(rec.Headlines)))
	if rid, _ := ctx.Value(logger.RequestIDKey).(string); rid != "" {
		msg.SetMetadata("request_id", rid)
	}

	_, err = p.Publish(ctx, msg)
	return err
}
