package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"newsletter-headline-api/internal/interfaces/http/dto"
	"newsletter-headline-api/pkg/errors"
	"newsletter-headline-api/pkg/logger"
)

// Recovery 捕获 panic，返回统一错误结构；响应已写出时只中断
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				fmt.Errorf("%v", r),
				"stack", string(debug.Stack()),
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
			)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			dto.AbortWithAppError(c, errors.ErrInternalError)
		}()

		c.Next()
	}
}
