package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/pkg/logger"
)

func newTestProducer(t *testing.T) (*Producer, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewProducer(rdb, "", 10), rdb
}

func TestPublishHeadlineGenerated(t *testing.T) {
	p, rdb := newTestProducer(t)
	ctx := logger.WithContext(context.Background(), logger.RequestIDKey, "req-42")

	err := p.PublishHeadlineGenerated(ctx, &entity.GenerationRecord{
		ID:             "rec-1",
		Provider:       "openai",
		Model:          entity.ModelOpenAI,
		Headlines:      []entity.Headline{{Title: "A", Keywords: []string{}, Reason: "r"}},
		TrendingTopics: []string{},
	})
	require.NoError(t, err)

	entries, err := rdb.XRange(ctx, string(DefaultHeadlineStream), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, TypeHeadlineGenerated, entries[0].Values["type"])

	msg, err := MessageFromValues(entries[0].Values)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", msg.ID)
	assert.Equal(t, "1", msg.Metadata["headline_count"])
	assert.Equal(t, "req-42", msg.Metadata["request_id"])

	var payload HeadlineGenerated
	require.NoError(t, msg.Decode(&payload))
	assert.Equal(t, "openai", payload.Provider)
	assert.Equal(t, "A", payload.Headlines[0].Title)
	assert.Equal(t, time.UTC, payload.CreatedAt.Location())
}

func TestPublishWithoutRecordIDGeneratesMessageID(t *testing.T) {
	p, rdb := newTestProducer(t)
	ctx := context.Background()

	require.NoError(t, p.PublishHeadlineGenerated(ctx, &entity.GenerationRecord{Provider: "google"}))
	require.NoError(t, p.PublishHeadlineGenerated(ctx, nil))

	entries, err := rdb.XRange(ctx, string(DefaultHeadlineStream), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	msg, err := MessageFromValues(entries[0].Values)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Empty(t, msg.Metadata["request_id"])
}

type otherEvent struct{}

func (otherEvent) EventType() string { return "other" }

func TestMessageDecodeRejectsOtherType(t *testing.T) {
	msg, err := NewMessage("m1", otherEvent{})
	require.NoError(t, err)
	assert.Error(t, msg.Decode(&HeadlineGenerated{}))

	_, err = MessageFromValues(map[string]interface{}{"type": "other"})
	assert.Error(t, err)
}
