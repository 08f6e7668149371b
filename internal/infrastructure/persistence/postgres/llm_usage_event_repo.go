package postgres

import (
	"context"
	"fmt"
	"time"

	"newsletter-headline-api/internal/domain/entity"
)

type LLMUsageEventRepository struct {
	client *Client
}

func NewLLMUsageEventRepository(client *Client) *LLMUsageEventRepository {
	return &LLMUsageEventRepository{client: client}
}

func (r *LLMUsageEventRepository) Create(ctx context.Context, event *entity.LLMUsageEvent) error {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.Create")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO llm_usage_events (workflow, provider, model, tokens_prompt, tokens_completion, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := q.QueryRowContext(ctx, query,
		event.Workflow, event.Provider, event.Model,
		event.TokensPrompt, event.TokensCompletion, event.DurationMs,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create llm usage event: %w", err)
	}
	return nil
}

func (r *LLMUsageEventRepository) SummarizeByProvider(ctx context.Context, since, until time.Time) ([]entity.ProviderUsage, error) {
	ctx, span := tracer.Start(ctx, "postgres.LLMUsageEventRepository.SummarizeByProvider")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT provider, model, COUNT(*),
		       COALESCE(SUM(tokens_prompt), 0), COALESCE(SUM(tokens_completion), 0),
		       COALESCE(AVG(duration_ms), 0)
		FROM llm_usage_events
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY provider, model
		ORDER BY provider, model
	`
	rows, err := q.QueryContext(ctx, query, since, until)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to summarize llm usage: %w", err)
	}
	defer rows.Close()

	out := make([]entity.ProviderUsage, 0)
	for rows.Next() {
		var u entity.ProviderUsage
		if err := rows.Scan(&u.Provider, &u.Model, &u.Calls, &u.PromptTokens, &u.CompletionTokens, &u.AvgDurationMs); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
