package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"newsletter-headline-api/internal/config"
	apperrors "newsletter-headline-api/pkg/errors"
)

// 客户端类型
const (
	KindOpenAI = "openai"
	KindGemini = "gemini"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, apperrors.ErrProviderUnsupported.WithDetail(fmt.Sprintf("provider %s not found in LLM config", name))
	}

	chatModel, err := newChatModel(ctx, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// Settings 返回 provider 的生成参数，未配置时返回 false
func (f *EinoFactory) Settings(name string) (config.ProviderConfig, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = f.config.DefaultProvider
	}
	cfg, ok := f.config.Providers[name]
	return cfg, ok
}

func newChatModel(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", KindOpenAI:
		// OpenAI 及兼容接口（Anthropic 走其 OpenAI 兼容端点）
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   ptrInt(cfg.MaxTokens),
			Temperature: ptrFloat32(float32(cfg.Temperature)),
			Timeout:     cfg.Timeout,
		})
	case KindGemini:
		return NewGeminiChatModel(ctx, &GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
			Timeout:     cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported llm kind %q", cfg.Kind)
	}
}

func ptrFloat32(f float32) *float32 {
	return &f
}

func ptrInt(i int) *int {
	if i <= 0 {
		return nil
	}
	return &i
}
