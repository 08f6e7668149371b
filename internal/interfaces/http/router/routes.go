package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/internal/interfaces/http/middleware"
)

// RegisterRoutes 注册页面、生成接口、历史与健康检查路由
func RegisterRoutes(engine *gin.Engine, h *RouterHandlers, limiter middleware.RateLimiter, rl config.RateLimitConfig) {
	generateLimit := middleware.RateLimit(limiter, rl.GeneratePerMinute, time.Minute)
	healthLimit := middleware.RateLimit(limiter, rl.HealthPerMinute, time.Minute)

	// 系统端点
	engine.GET("/health", healthLimit, h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	engine.GET("/live", h.Health.Live)

	// 表单页
	engine.GET("/", h.Page.Index)
	engine.POST("/submit", h.Page.Submit)

	engine.POST("/generate", generateLimit, h.Headline.Generate)

	registerV1Routes(engine.Group("/v1"), h)
}

func registerV1Routes(v1 *gin.RouterGroup, h *RouterHandlers) {
	headlines := v1.Group("/headlines")
	{
		headlines.GET("/recent", h.Headline.ListRecent)
	}
	v1.GET("/usage", h.Usage.Report)
}
