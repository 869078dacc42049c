package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// FriendListTTL 好友列表缓存默认 TTL（实际写入时带 ±10% 抖动）
	FriendListTTL = 1 * time.Hour
	// FriendListVersionTTL 好友列表版本号 TTL，需要明显长于列表本身
	FriendListVersionTTL = 7 * 24 * time.Hour
	// DeviceActiveTTL 设备活跃时间 Hash 的 TTL，心跳会续期
	DeviceActiveTTL = 24 * time.Hour
)

// ==================== Key 构造函数 ====================

// FriendListKey 生成好友列表缓存 Key: social:friends:list:{user_id}
func FriendListKey(userID string) string {
	return fmt.Sprintf("social:friends:list:%s", userID)
}

// FriendListVersionKey 生成好友列表版本号 Key: social:friends:ver:{user_id}
func FriendListVersionKey(userID string) string {
	return fmt.Sprintf("social:friends:ver:%s", userID)
}

// DeviceActiveKey 用户各设备最近活跃时间: social:devices:active:{user_id}
func DeviceActiveKey(userID string) string {
	return fmt.Sprintf("social:devices:active:%s", userID)
}

// ==================== 限流 Key 构造函数 ====================

// IPBlacklistKey IP 黑名单 Key: social:blacklist:ips
func IPBlacklistKey() string {
	return "social:blacklist:ips"
}

// UserRateLimitKey 用户限流 Key: social:rate:limit:user:{user_id}
func UserRateLimitKey(userID string) string {
	return fmt.Sprintf("social:rate:limit:user:%s", userID)
}

// IPRateLimitKey IP 限流 Key: social:rate:limit:ip:{ip}
func IPRateLimitKey(ip string) string {
	return fmt.Sprintf("social:rate:limit:ip:%s", ip)
}
