package ctxmeta

import (
	"context"

	"github.com/gin-gonic/gin"
)

// 上下文键。沿用字符串键，gin.Context 与 context.Context 两侧共用同一套名字。
const (
	KeyTraceID  = "trace_id"
	KeyUserUUID = "user_uuid"
	KeyDeviceID = "device_id"
	KeyClientIP = "client_ip"
)

type ctxKey string

func with(ctx context.Context, key, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey(key), value)
}

func get(ctx context.Context, key string) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey(key)).(string); ok {
		return v
	}
	// 兼容 gin.Context 直接作为 context 传入的情况
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return with(ctx, KeyTraceID, traceID)
}

func WithUserUUID(ctx context.Context, userUUID string) context.Context {
	return with(ctx, KeyUserUUID, userUUID)
}

func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return with(ctx, KeyDeviceID, deviceID)
}

func WithClientIP(ctx context.Context, clientIP string) context.Context {
	return with(ctx, KeyClientIP, clientIP)
}

func TraceID(ctx context.Context) string  { return get(ctx, KeyTraceID) }
func UserUUID(ctx context.Context) string { return get(ctx, KeyUserUUID) }
func DeviceID(ctx context.Context) string { return get(ctx, KeyDeviceID) }
func ClientIP(ctx context.Context) string { return get(ctx, KeyClientIP) }

// TraceIDFromGin 读取 TraceLogger 中间件写入的 trace_id。
func TraceIDFromGin(c *gin.Context) string {
	return c.GetString(KeyTraceID)
}

// FromGin 把 gin 上下文里的请求元数据搬到 request context 上，供 service 层和日志使用。
func FromGin(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	ctx = WithTraceID(ctx, c.GetString(KeyTraceID))
	ctx = WithUserUUID(ctx, c.GetString(KeyUserUUID))
	ctx = WithDeviceID(ctx, c.GetString(KeyDeviceID))
	ctx = WithClientIP(ctx, c.GetString(KeyClientIP))
	return ctx
}

// Detach 复制追踪字段到一个新的根 context，异步任务用它脱离请求生命周期。
func Detach(parent context.Context) context.Context {
	ctx := context.Background()
	ctx = WithTraceID(ctx, TraceID(parent))
	ctx = WithUserUUID(ctx, UserUUID(parent))
	ctx = WithDeviceID(ctx, DeviceID(parent))
	return ctx
}
