package middleware

import (
	"strconv"
	"time"

	"FitSocial/apps/social/internal/metrics"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware 记录请求数与耗时。route 取路由模板，避免路径参数撑爆标签基数。
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
