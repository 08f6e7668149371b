package headline

import (
	"fmt"
	"strings"

	"newsletter-headline-api/internal/domain/entity"
	apperrors "newsletter-headline-api/pkg/errors"
)

// ResolveModel 模型只由 provider 决定：配置的模型优先，否则取固定映射。
// 请求里的 model 只能为空或等于二者之一，其余一律拒绝。
func ResolveModel(settings ProviderSettings, provider, requested string) (string, error) {
	static := entity.ModelForProvider(provider)
	resolved := static
	if settings != nil {
		if s, ok := settings.Settings(provider); ok {
			if m := strings.TrimSpace(s.Model); m != "" {
				resolved = m
			}
		}
	}

	switch strings.TrimSpace(requested) {
	case "", static, resolved:
		return resolved, nil
	default:
		return "", apperrors.ErrInvalidParam.WithDetail(
			fmt.Sprintf("model %q is not served by provider %q", strings.TrimSpace(requested), provider))
	}
}
