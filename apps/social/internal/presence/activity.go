package presence

import (
	"context"
	"time"

	"FitSocial/consts/redisKey"
	"FitSocial/pkg/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const activityThrottleSize = 10000

// ActivityTracker 记录设备最近活跃时间，供跨节点查询用户是否活跃。
// Key: social:devices:active:{user_id}，field 为 device_id，value 为 unix 秒。
// client 为 nil 时所有操作为空操作。
type ActivityTracker struct {
	client   *redis.Client
	recently *expirable.LRU[string, struct{}]
}

// NewActivityTracker throttle 内同一设备的 Seen 只写一次 Redis
func NewActivityTracker(client *redis.Client, throttle time.Duration) *ActivityTracker {
	if throttle <= 0 {
		throttle = time.Minute
	}
	return &ActivityTracker{
		client:   client,
		recently: expirable.NewLRU[string, struct{}](activityThrottleSize, nil, throttle),
	}
}

// Touch 写入活跃时间并续期 key（连接建立、心跳）
func (t *ActivityTracker) Touch(ctx context.Context, userID, deviceID string) {
	if t == nil || t.client == nil || userID == "" || deviceID == "" {
		return
	}
	t.recently.Add(buildKey(userID, deviceID), struct{}{})

	key := rediskey.DeviceActiveKey(userID)
	pipe := t.client.Pipeline()
	pipe.HSet(ctx, key, deviceID, time.Now().Unix())
	pipe.Expire(ctx, key, rediskey.DeviceActiveTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn(ctx, "更新设备活跃时间失败",
			logger.String("user_uuid", userID),
			logger.String("device_id", deviceID),
			logger.ErrorField("error", err),
		)
	}
}

// Seen 普通 HTTP 请求，节流后再 Touch
func (t *ActivityTracker) Seen(ctx context.Context, userID, deviceID string) {
	if t == nil || t.client == nil || userID == "" || deviceID == "" {
		return
	}
	if t.recently.Contains(buildKey(userID, deviceID)) {
		return
	}
	t.Touch(ctx, userID, deviceID)
}

// Remove 连接断开时删除设备记录
func (t *ActivityTracker) Remove(ctx context.Context, userID, deviceID string) {
	if t == nil || t.client == nil || userID == "" || deviceID == "" {
		return
	}
	t.recently.Remove(buildKey(userID, deviceID))
	if err := t.client.HDel(ctx, rediskey.DeviceActiveKey(userID), deviceID).Err(); err != nil {
		logger.Warn(ctx, "删除设备活跃时间失败",
			logger.String("user_uuid", userID),
			logger.String("device_id", deviceID),
			logger.ErrorField("error", err),
		)
	}
}
