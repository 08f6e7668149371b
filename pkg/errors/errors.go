// Package errors 定义带错误码的应用错误，错误码决定 HTTP 状态
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"
	CodeUnprocessable      ErrorCode = "1009"

	// 业务错误 (4xxx)
	CodeProviderUnsupported ErrorCode = "4002"
	CodeLLMCallFailed       ErrorCode = "4005"

	// 外部依赖错误 (5xxx)
	CodeDatabaseError ErrorCode = "5001"
)

var httpStatus = map[ErrorCode]int{
	CodeInvalidParam:        http.StatusBadRequest,
	CodeProviderUnsupported: http.StatusBadRequest,
	CodeUnprocessable:       http.StatusUnprocessableEntity,
	CodeTooManyRequests:     http.StatusTooManyRequests,
	CodeServiceUnavailable:  http.StatusServiceUnavailable,
	CodeLLMCallFailed:       http.StatusBadGateway,
}

// HTTPStatusOf 未登记的错误码按 500 处理
func HTTPStatusOf(code ErrorCode) int {
	if s, ok := httpStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AppError 应用错误。预定义的哨兵错误只读，With* 返回副本
type AppError struct {
	Code        ErrorCode `json:"code"`
	Message     string    `json:"message"`
	Detail      string    `json:"detail,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	HTTPStatus  int       `json:"-"`
	Err         error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 错误码相同即视为同一类错误，errors.Is(err, ErrLLMCallFailed) 对副本同样成立
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// WithSuggestions 附加给调用方的处理建议
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	cp := *e
	cp.Suggestions = append([]string(nil), suggestions...)
	return &cp
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: HTTPStatusOf(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Err = err
	return appErr
}

// 预定义错误
var (
	ErrInvalidParam        = New(CodeInvalidParam, "invalid parameter")
	ErrTooManyRequests     = New(CodeTooManyRequests, "too many requests")
	ErrInternalError       = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable  = New(CodeServiceUnavailable, "service unavailable")
	ErrProviderUnsupported = New(CodeProviderUnsupported, "llm provider not configured")
	ErrLLMCallFailed       = New(CodeLLMCallFailed, "LLM call failed")
)

// IsAppError 检查错误链中是否有 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 取错误链中的 AppError，没有时包装为 CodeUnknown
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
