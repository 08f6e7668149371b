package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema 创建生成历史与 LLM 流水表，可重复执行；ctx 中有事务时在事务内执行
func (c *Client) EnsureSchema(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.EnsureSchema")
	defer span.End()

	if _, err := getQuerier(ctx, c.db).ExecContext(ctx, schemaSQL); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
