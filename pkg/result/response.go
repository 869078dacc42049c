package result

import (
	"net/http"

	"FitSocial/consts"
	"FitSocial/pkg/ctxmeta"

	"github.com/gin-gonic/gin"
)

// Response 响应结构体
type Response struct {
	Code    int32       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	TraceId string      `json:"trace_id"`
}

// Result 返回响应。业务错误也返回 200，由 code 区分。
func Result(c *gin.Context, data interface{}, message string, code int32) {
	if message == "" {
		message = consts.GetMessage(code)
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    data,
		TraceId: c.GetString(ctxmeta.KeyTraceID),
	})
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	Result(c, data, "", consts.CodeSuccess)
}

// Fail 返回失败响应
func Fail(c *gin.Context, data interface{}, code int32) {
	Result(c, data, "", code)
}

// SuccessWithMessage 返回成功响应并自定义消息
func SuccessWithMessage(c *gin.Context, data interface{}, message string) {
	Result(c, data, message, consts.CodeSuccess)
}

// FailWithMessage 返回失败响应并自定义消息
func FailWithMessage(c *gin.Context, data interface{}, message string, code int32) {
	Result(c, data, message, code)
}

// Unauthorized 认证失败，HTTP 401
func Unauthorized(c *gin.Context, code int32) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Code:    code,
		Message: consts.GetMessage(code),
		TraceId: c.GetString(ctxmeta.KeyTraceID),
	})
}

// TooManyRequests 限流，HTTP 429
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
		Code:    consts.CodeTooManyRequests,
		Message: consts.GetMessage(consts.CodeTooManyRequests),
		TraceId: c.GetString(ctxmeta.KeyTraceID),
	})
}

// Forbidden 拒绝访问，HTTP 403
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, Response{
		Code:    consts.CodePermissionDeny,
		Message: consts.GetMessage(consts.CodePermissionDeny),
		TraceId: c.GetString(ctxmeta.KeyTraceID),
	})
}
