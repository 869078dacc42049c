package middleware

import (
	"strings"

	"FitSocial/consts"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/result"
	"FitSocial/pkg/util"

	"github.com/gin-gonic/gin"
)

// QueryToken 浏览器 WebSocket 无法自定义请求头，握手时通过 ?token= 传递
const QueryToken = "token"

// JWTAuthMiddleware JWT 认证中间件
// 从 Authorization 头（或 token 查询参数）提取 Token 并验证，通过后将用户信息存入 Context
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 取 Token，请求头优先
		tokenString, ok := bearerToken(c)
		if !ok {
			// 客户端请求错误，属于正常业务流程，不记录日志
			result.Unauthorized(c, consts.CodeUnauthorized)
			return
		}

		// 2. 解析并验证 Token
		claims, err := util.ParseToken(tokenString)
		if err != nil || claims.UserUUID == "" {
			result.Unauthorized(c, consts.CodeInvalidToken)
			return
		}

		// 3. 将用户信息存入 Context，供后续 Handler 使用
		c.Set(ctxmeta.KeyUserUUID, claims.UserUUID)
		c.Set(ctxmeta.KeyDeviceID, claims.DeviceID)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		// 格式: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if token := c.Query(QueryToken); token != "" {
		return token, true
	}
	return "", false
}

// GetUserUUID 从 Context 中获取当前登录用户的 UUID
func GetUserUUID(c *gin.Context) (string, bool) {
	userUUID := c.GetString(ctxmeta.KeyUserUUID)
	return userUUID, userUUID != ""
}

// GetDeviceID 从 Context 中获取当前设备 ID
func GetDeviceID(c *gin.Context) (string, bool) {
	deviceID := c.GetString(ctxmeta.KeyDeviceID)
	return deviceID, deviceID != ""
}
