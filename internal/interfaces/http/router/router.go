// Package router 提供 HTTP 路由配置
package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/internal/interfaces/http/handler"
	"newsletter-headline-api/internal/interfaces/http/middleware"
	"newsletter-headline-api/pkg/logger"
)

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
}

// RouterHandlers 路由依赖的处理器
type RouterHandlers struct {
	Health   *handler.HealthHandler
	Headline *handler.HeadlineHandler
	Page     *handler.PageHandler
	Usage    *handler.UsageHandler
}

// New 创建只带中间件与系统端点的路由器
func New(cfg *config.Config) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		cfg:    cfg,
	}
	// 限流按 ClientIP 计数，只有受信对端的 X-Forwarded-For 生效
	if err := r.engine.SetTrustedProxies(cfg.Server.HTTP.TrustedProxies); err != nil {
		logger.Warn(context.Background(), "invalid trusted proxies, forwarded headers ignored", "error", err.Error())
		_ = r.engine.SetTrustedProxies(nil)
	}
	r.setupMiddleware()
	return r
}

// NewWithDeps 创建完整路由器；limiter 为 nil 时不限流
func NewWithDeps(cfg *config.Config, h *RouterHandlers, limiter middleware.RateLimiter) *Router {
	r := New(cfg)
	if !cfg.Security.RateLimit.Enabled {
		limiter = nil
	}
	RegisterRoutes(r.engine, h, limiter, cfg.Security.RateLimit)

	if cfg.Observability.Metrics.Enabled {
		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.Handler()))
	}
	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics(r.cfg.Observability.Metrics.Path))
	}
}
