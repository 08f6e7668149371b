package submitter

import (
	"fmt"
)

// NetworkError 请求未能完成（连接失败、读取响应体失败等）
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return "network error"
	}
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError 服务端返回非 2xx 状态码，Body 原样保留
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.StatusCode, e.Body)
}

// ParseError 响应体不是合法 JSON
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "Invalid JSON response"
	}
	return "Invalid JSON response: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError 响应 JSON 缺少 headlines 数组
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return "Invalid response format: " + e.Err.Error()
	}
	return "Invalid response format: missing headlines array"
}

func (e *SchemaError) Unwrap() error { return e.Err }
