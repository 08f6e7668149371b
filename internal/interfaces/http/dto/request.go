// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"newsletter-headline-api/internal/domain/repository"
)

// BindLimit 从 query 读取 limit，非法值取默认，上限 100
func BindLimit(c *gin.Context) int {
	return repository.ClampLimit(parseIntWithDefault(c.Query("limit"), repository.DefaultListLimit))
}

func parseIntWithDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
