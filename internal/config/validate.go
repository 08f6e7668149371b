package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
)

// Validate 检查启动前必须成立的配置约束，返回全部问题
func (c *Config) Validate() error {
	var errs []error

	if p := c.Server.HTTP.Port; p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("server.http.port out of range: %d", p))
	}
	for _, p := range c.Server.HTTP.TrustedProxies {
		if !validProxy(p) {
			errs = append(errs, fmt.Errorf("server.http.trusted_proxies: invalid address %q", p))
		}
	}
	if c.Generation.HeadlineCount < 1 {
		errs = append(errs, fmt.Errorf("generation.headline_count must be positive, got %d", c.Generation.HeadlineCount))
	}
	if c.Generation.MaxKeywords < 1 {
		errs = append(errs, fmt.Errorf("generation.max_keywords must be positive, got %d", c.Generation.MaxKeywords))
	}

	for name, p := range c.LLM.Providers {
		switch strings.ToLower(strings.TrimSpace(p.Kind)) {
		case "", "openai", "gemini":
		default:
			errs = append(errs, fmt.Errorf("llm.providers.%s.kind unsupported: %q", name, p.Kind))
		}
	}
	if def := c.LLM.DefaultProvider; def != "" && len(c.LLM.Providers) > 0 {
		if _, ok := c.LLM.Providers[def]; !ok {
			errs = append(errs, fmt.Errorf("llm.default_provider %q is not configured", def))
		}
	}

	if c.Events.Enabled && !c.Cache.Redis.Enabled {
		errs = append(errs, errors.New("events.enabled requires cache.redis.enabled"))
	}
	if c.Events.Enabled && !c.Database.Postgres.Enabled {
		errs = append(errs, errors.New("events.enabled requires database.postgres.enabled"))
	}
	if c.Observability.Tracing.SampleRate < 0 || c.Observability.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("observability.tracing.sample_rate must be within [0,1], got %v", c.Observability.Tracing.SampleRate))
	}

	return errors.Join(errs...)
}

func validProxy(s string) bool {
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err == nil
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}
