package handler

import (
	"strings"

	"newsletter-headline-api/internal/application/headline"
	apperrors "newsletter-headline-api/pkg/errors"
)

const maxProviderNameLen = 32

// resolveProvider 校验请求中的 provider；为空时交给生成器使用默认值
func resolveProvider(settings headline.ProviderSettings, provider string) (string, error) {
	p := strings.TrimSpace(provider)
	if p == "" {
		return "", nil
	}
	if len(p) > maxProviderNameLen {
		return "", apperrors.ErrInvalidParam.WithDetail("llm provider too long")
	}
	if settings == nil {
		return p, nil
	}
	if _, ok := settings.Settings(p); !ok {
		return "", apperrors.ErrProviderUnsupported.WithDetail("unknown llm provider: " + p)
	}
	return p, nil
}
