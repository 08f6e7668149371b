package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"newsletter-headline-api/internal/application/usage"
	"newsletter-headline-api/internal/interfaces/http/dto"
	apperrors "newsletter-headline-api/pkg/errors"
	"newsletter-headline-api/pkg/logger"
)

// UsageReporter token 用量汇总
type UsageReporter interface {
	Report(ctx context.Context, window time.Duration) (*usage.Report, error)
}

type UsageHandler struct {
	reporter UsageReporter
}

func NewUsageHandler(reporter UsageReporter) *UsageHandler {
	return &UsageHandler{reporter: reporter}
}

// Report 最近一段时间各 provider 的 token 用量
// @Summary token 用量
// @Tags Usage
// @Produce json
// @Param window query string false "时间窗口，如 24h" default(24h)
// @Success 200 {object} dto.Response[dto.UsageReportResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/usage [get]
func (h *UsageHandler) Report(c *gin.Context) {
	ctx := c.Request.Context()

	var window time.Duration
	if raw := c.Query("window"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			dto.AppError(c, apperrors.ErrInvalidParam.WithDetail("invalid window: "+raw))
			return
		}
		window = d
	}

	rep, err := h.reporter.Report(ctx, window)
	if err != nil {
		logger.Warn(ctx, "usage report failed", "error", err.Error())
		dto.AppError(c, err)
		return
	}
	dto.Success(c, dto.ToUsageReportResponse(rep))
}
