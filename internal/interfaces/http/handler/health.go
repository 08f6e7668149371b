// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const readyTimeout = 2 * time.Second

// HealthChecker 可探测的依赖
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	version string
	probes  map[string]HealthChecker
}

// NewHealthHandler 未启用的依赖传 nil，不参与就绪探测
func NewHealthHandler(version string, deps map[string]HealthChecker) *HealthHandler {
	probes := make(map[string]HealthChecker, len(deps))
	for name, dep := range deps {
		if dep != nil {
			probes[name] = dep
		}
	}
	return &HealthHandler{version: version, probes: probes}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type probeResult struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

type readinessResponse struct {
	Status string                  `json:"status"`
	Checks map[string]probeResult `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: h.version})
}

// Ready 并发探测已启用的依赖，任一失败返回 503
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} readinessResponse
// @Failure 503 {object} readinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	results := h.probe(c.Request.Context())

	resp := readinessResponse{Status: "ok", Checks: results}
	code := http.StatusOK
	for _, r := range results {
		if r.Error != "" {
			resp.Status = "not_ready"
			code = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) probe(parent context.Context) map[string]probeResult {
	ctx, cancel := context.WithTimeout(parent, readyTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]probeResult, len(h.probes))
		g       errgroup.Group
	)
	for name, dep := range h.probes {
		g.Go(func() error {
			start := time.Now()
			r := probeResult{Status: "ok"}
			if err := dep.HealthCheck(ctx); err != nil {
				r.Status, r.Error = "error", err.Error()
			}
			r.LatencyMs = time.Since(start).Milliseconds()

			mu.Lock()
			results[name] = r
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
