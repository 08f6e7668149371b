package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/domain/repository"
)

// GenerationRecordRepository 生成历史仓储实现
type GenerationRecordRepository struct {
	client *Client
}

// NewGenerationRecordRepository 创建生成历史仓储
func NewGenerationRecordRepository(client *Client) *GenerationRecordRepository {
	return &GenerationRecordRepository{client: client}
}

// Create 保存生成记录
func (r *GenerationRecordRepository) Create(ctx context.Context, record *entity.GenerationRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRecordRepository.Create")
	defer span.End()

	headlines, err := encodeHeadlines(record.Headlines)
	if err != nil {
		span.RecordError(err)
		return err
	}

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO generation_records (provider, model, audience_profile, goal, tone, headlines, trending_topics)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = q.QueryRowContext(ctx, query,
		record.Provider, record.Model, record.AudienceProfile, record.Goal, record.Tone,
		headlines, pq.Array(nonNilStrings(record.TrendingTopics)),
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create generation record: %w", err)
	}

	return nil
}

// ListRecent 按创建时间倒序返回最近的记录
func (r *GenerationRecordRepository) ListRecent(ctx context.Context, limit int) ([]*entity.GenerationRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRecordRepository.ListRecent")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, provider, model, audience_profile, goal, tone, headlines, trending_topics, created_at
		FROM generation_records
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := q.QueryContext(ctx, query, repository.ClampLimit(limit))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generation records: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.GenerationRecord, 0)
	for rows.Next() {
		var (
			rec       entity.GenerationRecord
			headlines []byte
			topics    []string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Provider, &rec.Model, &rec.AudienceProfile, &rec.Goal, &rec.Tone,
			&headlines, pq.Array(&topics), &rec.CreatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan generation record: %w", err)
		}
		if rec.Headlines, err = decodeHeadlines(headlines); err != nil {
			span.RecordError(err)
			return nil, err
		}
		rec.TrendingTopics = nonNilStrings(topics)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to iterate generation records: %w", err)
	}

	return records, nil
}

func encodeHeadlines(headlines []entity.Headline) ([]byte, error) {
	if headlines == nil {
		headlines = []entity.Headline{}
	}
	b, err := json.Marshal(headlines)
	if err != nil {
		return nil, fmt.Errorf("failed to encode headlines: %w", err)
	}
	return b, nil
}

func decodeHeadlines(raw []byte) ([]entity.Headline, error) {
	out := make([]entity.Headline, 0)
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode headlines: %w", err)
	}
	for i := range out {
		if out[i].Keywords == nil {
			out[i].Keywords = []string{}
		}
	}
	return out, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
