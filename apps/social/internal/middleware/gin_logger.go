package middleware

import (
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"FitSocial/consts"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/logger"

	"github.com/gin-gonic/gin"
)

// slowRequestThreshold 超过该耗时的请求记为慢请求
const slowRequestThreshold = 2 * time.Second

// GinLogger 请求日志
// 只记录服务端错误(5xx)和慢请求，正常请求不记录
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		status := c.Writer.Status()
		if status < http.StatusInternalServerError && cost <= slowRequestThreshold {
			return
		}

		logger.Warn(ctxmeta.FromGin(c), "慢请求或服务端错误",
			logger.Int("status", status),
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.String("query", query),
			logger.String("ip", c.GetString(ctxmeta.KeyClientIP)),
			logger.String("user-agent", c.Request.UserAgent()),
			logger.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
			logger.Duration("cost", cost),
		)
	}
}

// GinRecovery recover 掉项目可能出现的 panic
// stack: 是否记录堆栈
func GinRecovery(stack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			ctx := ctxmeta.FromGin(c)

			// 连接已断开时无需再写响应
			if isBrokenPipe(err) {
				httpRequest, _ := httputil.DumpRequest(c.Request, false)
				logger.Error(ctx, "连接已断开",
					logger.String("path", c.Request.URL.Path),
					logger.Any("error", err),
					logger.String("request", string(httpRequest)),
				)
				_ = c.Error(errors.New("broken pipe"))
				c.Abort()
				return
			}

			fields := []logger.Field{
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
				logger.Any("error", err),
			}
			if stack {
				fields = append(fields, logger.String("stack", string(debug.Stack())))
			}
			logger.Error(ctx, "请求处理 panic", fields...)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":     consts.CodeInternalError,
				"message":  consts.GetMessage(consts.CodeInternalError),
				"trace_id": c.GetString(ctxmeta.KeyTraceID),
			})
		}()
		c.Next()
	}
}

func isBrokenPipe(err interface{}) bool {
	ne, ok := err.(*net.OpError)
	if !ok {
		return false
	}
	var se *os.SyscallError
	if errors.As(ne, &se) {
		msg := strings.ToLower(se.Error())
		return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
	}
	return false
}
