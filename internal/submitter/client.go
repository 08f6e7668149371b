package submitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"newsletter-headline-api/internal/domain/entity"
	"newsletter-headline-api/pkg/logger"
)

// GeneratePath 生成接口路径
const GeneratePath = "/generate"

// Generator 发送生成请求并返回标题
type Generator interface {
	Generate(ctx context.Context, req *entity.GenerationRequest) ([]entity.Headline, error)
}

type forwardedForKey struct{}

// WithForwardedFor 记录原始客户端 IP，请求时写入 X-Forwarded-For
func WithForwardedFor(ctx context.Context, clientIP string) context.Context {
	if strings.TrimSpace(clientIP) == "" {
		return ctx
	}
	return context.WithValue(ctx, forwardedForKey{}, clientIP)
}

// Client 调用 POST /generate 的 HTTP 客户端。
// 不重试、不缓存，超时只受调用方 ctx 控制。
type Client struct {
	endpoint string
	http     *http.Client
}

// Option 配置 Client
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient 创建客户端，baseURL 形如 http://127.0.0.1:8000
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(strings.TrimSpace(baseURL), "/") + GeneratePath,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Generate 发送一次请求并校验响应
func (c *Client) Generate(ctx context.Context, req *entity.GenerationRequest) ([]entity.Headline, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if ip, ok := ctx.Value(forwardedForKey{}).(string); ok {
		httpReq.Header.Set("X-Forwarded-For", ip)
	}

	logger.Debug(ctx, "sending generation request",
		"endpoint", c.endpoint,
		"provider", req.Provider,
		"model", req.Model,
	)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	logger.Debug(ctx, "generation response received",
		"status", resp.StatusCode,
		"bytes", len(raw),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	return DecodeHeadlines(raw)
}

// DecodeHeadlines 解析响应体，要求顶层对象包含 headlines 数组
func DecodeHeadlines(raw []byte) ([]entity.Headline, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		if json.Valid(raw) {
			// 合法 JSON，但不是对象
			return nil, &SchemaError{}
		}
		return nil, &ParseError{Err: err}
	}

	field, ok := envelope["headlines"]
	if !ok || !isJSONArray(field) {
		return nil, &SchemaError{}
	}

	headlines := make([]entity.Headline, 0)
	if err := json.Unmarshal(field, &headlines); err != nil {
		return nil, &SchemaError{Err: err}
	}
	return headlines, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
