package middleware

import (
	"context"
	"time"

	rediskey "FitSocial/consts/redisKey"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/logger"
	"FitSocial/pkg/result"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// ==================== Redis 令牌桶 Lua 脚本 ====================

// luaTokenBucket 原子地补充令牌并尝试消耗
//
//	KEYS[1]: 限流 key
//	ARGV[1]: 当前时间戳 (毫秒)
//	ARGV[2]: 令牌桶容量
//	ARGV[3]: 每秒产生的令牌数
//	ARGV[4]: 每次请求消耗的令牌数
//
// 返回 1 允许通过，0 令牌不足
var luaTokenBucket = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local rate = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local info = redis.call('HMGET', key, 'tokens', 'last_time')
local current_tokens = tonumber(info[1])
local last_time = tonumber(info[2])

if current_tokens == nil then
    current_tokens = capacity
end
if last_time == nil then
    last_time = now
end

local time_diff = math.max(0, now - last_time)
local new_tokens = math.floor((time_diff * rate) / 1000)
if new_tokens > 0 then
    current_tokens = math.min(capacity, current_tokens + new_tokens)
    last_time = now
end

local allowed = 0
if current_tokens >= requested then
    current_tokens = current_tokens - requested
    allowed = 1
end

redis.call('HMSET', key, 'tokens', current_tokens, 'last_time', last_time)

local fill_time = math.ceil(capacity / rate)
local ttl = math.max(60, fill_time * 2)
redis.call('EXPIRE', key, ttl)

return allowed
`)

// redisLimitTimeout 限流检查的独立超时，防止 Redis 变慢拖住请求
const redisLimitTimeout = 50 * time.Millisecond

// localLimiterSize 本地降级令牌桶的最大 key 数
const localLimiterSize = 10000

// ==================== 限流器 ====================

// RateLimiter Redis 令牌桶限流器。
// Redis 未配置或出错时降级到进程内令牌桶（x/time/rate），不直接放行。
type RateLimiter struct {
	client *redis.Client
	rate   float64
	burst  int
	local  *lru.Cache[string, *rate.Limiter]
}

// NewRateLimiter client 可以为 nil
func NewRateLimiter(client *redis.Client, r float64, burst int) *RateLimiter {
	local, _ := lru.New[string, *rate.Limiter](localLimiterSize)
	return &RateLimiter{client: client, rate: r, burst: burst, local: local}
}

// Allow 检查 key 是否还有令牌
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l.rate <= 0 {
		return true
	}
	if l.client == nil {
		return l.allowLocal(key)
	}

	redisCtx, cancel := context.WithTimeout(ctx, redisLimitTimeout)
	defer cancel()

	allowed, err := luaTokenBucket.Run(redisCtx, l.client, []string{key},
		time.Now().UnixMilli(), l.burst, l.rate, 1).Int64()
	if err != nil {
		logger.Warn(ctx, "Redis 限流检查失败，降级到本地令牌桶",
			logger.String("key", key),
			logger.ErrorField("error", err),
		)
		return l.allowLocal(key)
	}
	return allowed == 1
}

func (l *RateLimiter) allowLocal(key string) bool {
	limiter, ok := l.local.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rate), l.burst)
		// 并发下可能重复创建，以先写入的为准
		if prev, loaded, _ := l.local.PeekOrAdd(key, limiter); loaded {
			limiter = prev
		}
	}
	return limiter.Allow()
}

// isBlacklisted IP 黑名单检查，Redis 不可用时视为不在黑名单
func (l *RateLimiter) isBlacklisted(ctx context.Context, ip string) bool {
	if l.client == nil {
		return false
	}
	redisCtx, cancel := context.WithTimeout(ctx, redisLimitTimeout)
	defer cancel()

	exists, err := l.client.SIsMember(redisCtx, rediskey.IPBlacklistKey(), ip).Result()
	if err != nil {
		logger.Warn(ctx, "Redis 黑名单检查失败，降级放行",
			logger.String("ip", ip),
			logger.ErrorField("error", err),
		)
		return false
	}
	return exists
}

// ==================== 中间件 ====================

// IPRateLimitMiddleware 黑名单 + IP 级限流，放在认证之前
func IPRateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetString(ctxmeta.KeyClientIP)
		if ip == "" {
			ip = GetClientIP(c)
		}
		ctx := ctxmeta.FromGin(c)

		if limiter.isBlacklisted(ctx, ip) {
			logger.Warn(ctx, "IP 在黑名单中，拒绝访问",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path),
			)
			result.Forbidden(c)
			return
		}

		if !limiter.Allow(ctx, rediskey.IPRateLimitKey(ip)) {
			logger.Warn(ctx, "IP 请求被限流",
				logger.String("ip", ip),
				logger.String("path", c.Request.URL.Path),
			)
			result.TooManyRequests(c)
			return
		}
		c.Next()
	}
}

// UserRateLimitMiddleware 用户级限流，需要在 JWTAuthMiddleware 之后使用
func UserRateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userUUID, ok := GetUserUUID(c)
		if !ok {
			c.Next()
			return
		}

		ctx := ctxmeta.FromGin(c)
		if !limiter.Allow(ctx, rediskey.UserRateLimitKey(userUUID)) {
			logger.Warn(ctx, "用户请求被限流",
				logger.String("path", c.Request.URL.Path),
				logger.String("method", c.Request.Method),
			)
			result.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
