package middleware

import (
	"FitSocial/apps/social/internal/presence"
	"FitSocial/pkg/ctxmeta"

	"github.com/gin-gonic/gin"
)

// DeviceActiveMiddleware 已登录请求结束后记录设备活跃时间，需挂在 JWT 中间件之后
func DeviceActiveMiddleware(tracker *presence.ActivityTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		userUUID, ok := GetUserUUID(c)
		if !ok {
			return
		}
		deviceID, ok := GetDeviceID(c)
		if !ok {
			return
		}
		tracker.Seen(ctxmeta.Detach(ctxmeta.FromGin(c)), userUUID, deviceID)
	}
}
