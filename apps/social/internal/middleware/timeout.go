package middleware

import (
	"context"
	"errors"
	"time"

	"FitSocial/consts"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/logger"
	"FitSocial/pkg/result"

	"github.com/gin-gonic/gin"
)

// TimeoutMiddleware 请求超时控制中间件
// 不开启 Goroutine，依赖下游（gorm、redis）感知 Context 超时
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 下游太慢、超时前没来得及写响应时兜底
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			logger.Warn(ctxmeta.FromGin(c), "请求处理超时",
				logger.String("path", c.Request.URL.Path),
				logger.Duration("timeout", timeout),
			)
			result.Fail(c, nil, consts.CodeTimeoutError)
		}
	}
}
