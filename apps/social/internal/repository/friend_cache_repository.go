package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"FitSocial/apps/social/mq"
	rediskey "FitSocial/consts/redisKey"
	"FitSocial/model"
	"FitSocial/pkg/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// dirtyCacheSize 本地记录失效失败用户的容量
const dirtyCacheSize = 10000

// FriendCacheOptions 好友列表缓存参数
type FriendCacheOptions struct {
	TTL                time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// friendCacheRepositoryImpl 好友列表缓存。
// 列表 key 存 JSON，版本号 key 记录失效次数：
//   - 失效：INCR 版本号 + DEL 列表；
//   - 回填：Lua 比较读库前的版本号，不一致说明读库期间发生过失效，放弃写入。
//
// Redis 异常或熔断打开时一律按未命中处理，直接回源。
// 失效失败的用户记入本地 dirty 表（值为失效序号），在下一次成功失效或 TTL 到期前不读也不回填 Redis。
type friendCacheRepositoryImpl struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	dirty   *expirable.LRU[string, uint64]
	seq     atomic.Uint64
}

// NewFriendCacheRepository client 为 nil 时缓存完全透传
func NewFriendCacheRepository(client *redis.Client, opts FriendCacheOptions) IFriendCacheRepository {
	if opts.TTL <= 0 {
		opts.TTL = rediskey.FriendListTTL
	}
	if opts.BreakerMaxFailures == 0 {
		opts.BreakerMaxFailures = 5
	}
	maxFailures := opts.BreakerMaxFailures

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "friend-list-cache",
		MaxRequests: 1,
		Timeout:     opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "熔断器状态变化",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})

	return &friendCacheRepositoryImpl{
		client:  client,
		breaker: breaker,
		ttl:     opts.TTL,
		dirty:   expirable.NewLRU[string, uint64](dirtyCacheSize, nil, opts.TTL),
	}
}

// GetOrLoad 读穿缓存
func (r *friendCacheRepositoryImpl) GetOrLoad(ctx context.Context, userID string, loader FriendListLoader) ([]model.FriendView, error) {
	if r.client == nil || r.dirty.Contains(userID) {
		return loader(ctx)
	}

	listKey := rediskey.FriendListKey(userID)
	verKey := rediskey.FriendListVersionKey(userID)

	// 1. 一次 MGET 同时拿列表和版本号
	version, fillable := "0", false
	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.MGet(ctx, listKey, verKey).Result()
	})
	if err != nil {
		LogRedisError(ctx, WrapRedisError(err))
	} else {
		vals := res.([]interface{})
		if raw, ok := vals[0].(string); ok {
			var views []model.FriendView
			if jsonErr := json.Unmarshal([]byte(raw), &views); jsonErr == nil {
				return views, nil
			}
			logger.Warn(ctx, "好友列表缓存反序列化失败，回源", logger.String("key", listKey))
		}
		if v, ok := vals[1].(string); ok {
			version = v
		}
		fillable = true
	}

	// 2. 回源
	views, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []model.FriendView{}
	}

	// 3. 带版本号回填，失败只记日志
	if fillable {
		r.fill(ctx, listKey, verKey, version, views)
	}
	return views, nil
}

func (r *friendCacheRepositoryImpl) fill(ctx context.Context, listKey, verKey, version string, views []model.FriendView) {
	data, err := json.Marshal(views)
	if err != nil {
		logger.Warn(ctx, "好友列表序列化失败", logger.ErrorField("error", err))
		return
	}
	ttl := getRandomExpireTime(r.ttl)

	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.client.Eval(ctx, luaSetIfVersion, []string{listKey, verKey},
			version, string(data), strconv.FormatInt(ttl.Milliseconds(), 10)).Int64()
	})
	if err != nil {
		LogRedisError(ctx, WrapRedisError(err))
		return
	}
	if res.(int64) == 0 {
		logger.Debug(ctx, "好友列表回填被并发失效拦截", logger.String("key", listKey))
	}
}

// Invalidate 失效缓存。失败的任务投递到 Kafka 重试队列。
func (r *friendCacheRepositoryImpl) Invalidate(ctx context.Context, userIDs ...string) {
	userIDs = dedupe(userIDs)
	if r.client == nil || len(userIDs) == 0 {
		return
	}
	seq := r.seq.Add(1)

	cmds := make([]mq.RedisCmd, 0, len(userIDs)*3)
	verTTL := int(rediskey.FriendListVersionTTL.Seconds())
	for _, id := range userIDs {
		verKey := rediskey.FriendListVersionKey(id)
		cmds = append(cmds,
			mq.RedisCmd{Command: "incr", Args: []interface{}{verKey}},
			mq.RedisCmd{Command: "expire", Args: []interface{}{verKey, verTTL}},
			mq.RedisCmd{Command: "del", Args: []interface{}{rediskey.FriendListKey(id)}},
		)
	}

	_, err := r.breaker.Execute(func() (interface{}, error) {
		pipe := r.client.TxPipeline()
		for _, cmd := range cmds {
			pipe.Do(ctx, append([]interface{}{cmd.Command}, cmd.Args...)...)
		}
		return pipe.Exec(ctx)
	})
	if err != nil {
		for _, id := range userIDs {
			if mark, ok := r.dirty.Peek(id); !ok || mark < seq {
				r.dirty.Add(id, seq)
			}
		}
		LogAndRetryRedisError(ctx, mq.BuildPipelineTask(cmds).WithSource("friend_cache.invalidate"), err)
		return
	}

	// 只清除本次失效开始前记下的标记
	for _, id := range userIDs {
		if mark, ok := r.dirty.Peek(id); ok && mark < seq {
			r.dirty.Remove(id)
		}
	}
}
