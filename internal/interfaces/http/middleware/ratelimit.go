// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"newsletter-headline-api/internal/interfaces/http/dto"
	"newsletter-headline-api/pkg/errors"
	"newsletter-headline-api/pkg/logger"
	"newsletter-headline-api/pkg/metrics"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按客户端 IP 对单个路由限流：window 内最多 limit 次
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	if limiter == nil || limit <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	if window <= 0 {
		window = time.Minute
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := "ratelimit:" + path + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(path).Inc()
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			dto.AbortWithAppError(c, errors.ErrTooManyRequests.WithDetail(
				"rate limit exceeded: "+strconv.Itoa(limit)+" per "+window.String()))
			return
		}

		c.Next()
	}
}

const localSweepInterval = time.Minute

type localBucket struct {
	lim      *rate.Limiter
	window   time.Duration
	lastSeen time.Time
}

// LocalRateLimiter 进程内令牌桶限流，Redis 不可用时使用。
// 空闲超过一个 window 的桶已回满，定期清除。
type LocalRateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{buckets: make(map[string]*localBucket), now: time.Now}
}

// Allow 桶容量为 limit，每 window/limit 补充一个令牌
func (l *LocalRateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= localSweepInterval {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{lim: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit), window: window}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1), nil
}

func (l *LocalRateLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= b.window {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
