package repository

import (
	"context"

	"newsletter-headline-api/internal/domain/entity"
)

// GenerationRecordRepository 标题生成历史仓储接口
type GenerationRecordRepository interface {
	// Create 保存一次生成记录，ID 与 CreatedAt 由存储层回填
	Create(ctx context.Context, record *entity.GenerationRecord) error

	// ListRecent 按创建时间倒序返回最近的记录
	ListRecent(ctx context.Context, limit int) ([]*entity.GenerationRecord, error)
}
