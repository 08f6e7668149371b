package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/internal/domain/entity"
	apperrors "newsletter-headline-api/pkg/errors"
)

func TestReportSummarizesWindow(t *testing.T) {
	t.Parallel()
	repo := &memUsageRepo{summary: []entity.ProviderUsage{
		{Provider: "anthropic", Model: "claude-3-opus-20240229", Calls: 2, PromptTokens: 300, CompletionTokens: 120},
		{Provider: "openai", Model: "gpt-4", Calls: 1, PromptTokens: 100, CompletionTokens: 50},
	}}
	r := NewReporter(repo)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	rep, err := r.Report(context.Background(), 6*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-6*time.Hour), rep.Since)
	assert.Equal(t, now, rep.Until)
	assert.Equal(t, []time.Time{rep.Since, rep.Until}, repo.summaryRange)
	assert.Len(t, rep.Providers, 2)
	assert.Equal(t, int64(570), rep.TotalTokens())
}

func TestReportWindowBounds(t *testing.T) {
	t.Parallel()
	r := NewReporter(nil)

	rep, err := r.Report(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultReportWindow, rep.Until.Sub(rep.Since))
	assert.Empty(t, rep.Providers)
	assert.NotNil(t, rep.Providers)

	_, err = r.Report(context.Background(), MaxReportWindow+time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	_, err = r.Report(context.Background(), -5*time.Hour)
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestReportRepositoryError(t *testing.T) {
	t.Parallel()
	r := NewReporter(&memUsageRepo{err: errors.New("db down")})
	_, err := r.Report(context.Background(), time.Hour)
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.AsAppError(err).Code)
}
