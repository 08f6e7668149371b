package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/domain/service"
)

type memUsageRepo struct {
	events       []*entity.LLMUsageEvent
	summary      []entity.ProviderUsage
	summaryRange []time.Time
	err          error
}

func (m *memUsageRepo) Create(ctx context.Context, e *entity.LLMUsageEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memUsageRepo) SummarizeByProvider(_ context.Context, since, until time.Time) ([]entity.ProviderUsage, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.summaryRange = []time.Time{since, until}
	return m.summary, nil
}

func TestRecordWritesEvent(t *testing.T) {
	t.Parallel()
	repo := &memUsageRepo{}
	r := NewLLMUsageRecorder(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Record(ctx, service.LLMUsageInput{
		Workflow: " headline_generate ", Provider: "openai", Model: "gpt-4",
		PromptTokens: 120, CompletionTokens: 80, DurationMs: 900,
	})
	require.NoError(t, err)
	require.Len(t, repo.events, 1)
	assert.Equal(t, "headline_generate", repo.events[0].Workflow)
	assert.Equal(t, 120, repo.events[0].TokensPrompt)
	assert.Equal(t, 80, repo.events[0].TokensCompletion)
}

func TestRecordSkipsAndValidates(t *testing.T) {
	t.Parallel()
	repo := &memUsageRepo{}
	r := NewLLMUsageRecorder(repo)

	require.NoError(t, r.Record(context.Background(), service.LLMUsageInput{Provider: "openai"}))
	assert.Empty(t, repo.events)

	assert.Error(t, r.Record(context.Background(), service.LLMUsageInput{PromptTokens: -1}))

	var nilRecorder *LLMUsageRecorder
	assert.NoError(t, nilRecorder.Record(context.Background(), service.LLMUsageInput{PromptTokens: 1}))

	repo.err = errors.New("db down")
	assert.Error(t, r.Record(context.Background(), service.LLMUsageInput{PromptTokens: 1}))
}
