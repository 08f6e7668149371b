// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsletter-headline-api/pkg/errors"
)

// Response 统一响应结构
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	ErrorCode   string   `json:"error_code,omitempty"`
	Details     string   `json:"details,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Success 返回成功响应
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, Response[T]{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// UnprocessableEntity 请求体无法绑定
func UnprocessableEntity(c *gin.Context, message string, detail *ErrorDetail) {
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Code:    http.StatusUnprocessableEntity,
		Message: message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	})
}

// AppError 按 AppError 的错误码写出错误响应
func AppError(c *gin.Context, err error) {
	status, body := appErrorResponse(c, err)
	c.JSON(status, body)
}

// AbortWithAppError 供中间件使用，写出后中断后续 handler
func AbortWithAppError(c *gin.Context, err error) {
	status, body := appErrorResponse(c, err)
	c.AbortWithStatusJSON(status, body)
}

func appErrorResponse(c *gin.Context, err error) (int, ErrorResponse) {
	appErr := errors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = errors.HTTPStatusOf(appErr.Code)
	}
	return status, ErrorResponse{
		Code:    status,
		Message: appErr.Message,
		Error: &ErrorDetail{
			ErrorCode:   string(appErr.Code),
			Details:     appErr.Detail,
			Suggestions: appErr.Suggestions,
		},
		TraceID: c.GetString("trace_id"),
	}
}
