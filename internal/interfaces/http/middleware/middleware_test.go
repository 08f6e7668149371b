package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func doRequest(r http.Handler, method, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerClientIP(t *testing.T) {
	r := gin.New()
	r.GET("/health", RateLimit(NewLocalRateLimiter(), 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health", "10.0.0.1:1234").Code)

	w := doRequest(r, http.MethodGet, "/health", "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// 其他客户端不受影响
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health", "10.0.0.2:1234").Code)
}

func TestLocalRateLimiterEvictsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewLocalRateLimiter()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		ok, err := l.Allow(ctx, "ratelimit:/generate:10.0.0."+strconv.Itoa(i), 1, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "ratelimit:/generate:10.0.0.1", 1, time.Minute)
	assert.False(t, ok)
	assert.Len(t, l.buckets, 100)

	now = now.Add(30 * time.Second)
	_, _ = l.Allow(ctx, "ratelimit:/generate:10.0.0.1", 1, time.Minute)

	// 只有最近活跃的桶保留
	now = now.Add(45 * time.Second)
	_, _ = l.Allow(ctx, "ratelimit:/generate:10.0.0.200", 1, time.Minute)
	assert.Len(t, l.buckets, 2)
	assert.Contains(t, l.buckets, "ratelimit:/generate:10.0.0.1")
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(failingLimiter{}, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusNoContent, doRequest(r, http.MethodGet, "/x", "").Code)

	r2 := gin.New()
	r2.GET("/x", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusNoContent, doRequest(r2, http.MethodGet, "/x", "").Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := doRequest(r, http.MethodGet, "/", "")
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), 36)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := doRequest(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"message":"internal server error","error":{"error_code":"1007"}}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(CORSConfig{AllowedOrigins: []string{"*"}}))
	r.POST("/generate", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	req.Header.Set("Origin", "https://newsletter.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	assert.False(t, allowsAnyOrigin([]string{"https://a.example"}))
	assert.True(t, allowsAnyOrigin(nil))
}

func TestMetricsSkipsPaths(t *testing.T) {
	r := gin.New()
	r.Use(Metrics("/metrics"))
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200"))
	doRequest(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, before, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")))

	before = testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	doRequest(r, http.MethodGet, "/nope", "")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestIsUntraced(t *testing.T) {
	assert.True(t, isUntraced("/health"))
	assert.False(t, isUntraced("/generate"))
}
