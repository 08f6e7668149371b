// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsletter-headline-api/internal/application/headline"
	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/internal/interfaces/http/dto"
	"newsletter-headline-api/pkg/logger"
)

// HeadlineService 标题生成与历史查询
type HeadlineService interface {
	Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error)
	Recent(ctx context.Context, limit int) ([]*entity.GenerationRecord, error)
}

// HeadlineHandler 标题生成处理器
type HeadlineHandler struct {
	service  HeadlineService
	settings headline.ProviderSettings
}

// NewHeadlineHandler 创建标题生成处理器
func NewHeadlineHandler(service HeadlineService, settings headline.ProviderSettings) *HeadlineHandler {
	return &HeadlineHandler{service: service, settings: settings}
}

// Generate 生成邮件标题
// 成功时直接返回 {"headlines": [...], "trending_topics": [...]}，不包统一响应结构。
// @Summary 生成邮件标题
// @Tags Headlines
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 {object} entity.GenerationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /generate [post]
func (h *HeadlineHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.UnprocessableEntity(c, "invalid request body", &dto.ErrorDetail{Details: err.Error()})
		return
	}

	provider, err := resolveProvider(h.settings, req.Provider)
	if err != nil {
		dto.AppError(c, err)
		return
	}
	req.Provider = provider
	if provider != "" {
		m, err := headline.ResolveModel(h.settings, provider, req.Model)
		if err != nil {
			dto.AppError(c, err)
			return
		}
		req.Model = m
	}

	resp, err := h.service.Generate(ctx, req.ToEntity())
	if err != nil {
		logger.Warn(ctx, "generate request failed", "error", err.Error())
		dto.AppError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListRecent 最近的生成记录
// @Summary 最近的生成记录
// @Tags Headlines
// @Produce json
// @Param limit query int false "条数" default(20)
// @Success 200 {object} dto.Response[dto.GenerationRecordListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/headlines/recent [get]
func (h *HeadlineHandler) ListRecent(c *gin.Context) {
	ctx := c.Request.Context()

	records, err := h.service.Recent(ctx, dto.BindLimit(c))
	if err != nil {
		logger.Error(ctx, "failed to list generation records", err)
		dto.AppError(c, err)
		return
	}
	dto.Success(c, dto.ToGenerationRecordListResponse(records))
}
