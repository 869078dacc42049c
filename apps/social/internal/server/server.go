package server

import (
	"context"
	"net/http"
	"time"

	"FitSocial/apps/social/internal/dispatch"
	"FitSocial/apps/social/internal/handler"
	"FitSocial/apps/social/internal/metrics"
	"FitSocial/apps/social/internal/middleware"
	"FitSocial/apps/social/internal/presence"
	"FitSocial/apps/social/internal/repository"
	"FitSocial/apps/social/internal/router"
	v1 "FitSocial/apps/social/internal/router/v1"
	"FitSocial/apps/social/internal/service"
	"FitSocial/config"
	"FitSocial/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// dispatchTimeout 单次推送任务（含群成员解析）的超时
	dispatchTimeout = 5 * time.Second
	// activityThrottle 普通请求写设备活跃时间的最小间隔
	activityThrottle = time.Minute
)

// Deps 外部基础设施，Redis 为 nil 时缓存、限流与活跃记录降级
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// Server 组装仓储、服务、推送与路由，集中管理启动和优雅关闭
type Server struct {
	httpServer *http.Server
	registry   *presence.Registry
}

// New 依赖注入顺序：仓储 -> 在线表与推送 -> 服务 -> 处理器 -> 路由
func New(cfg config.AppConfig, deps Deps) *Server {
	social := cfg.Social

	// 1. 仓储层
	relRepo := repository.NewRelationshipRepository(deps.DB)
	msgRepo := repository.NewMessageRepository(deps.DB)
	groupRepo := repository.NewGroupRepository(deps.DB)
	planRepo := repository.NewPlanRepository(deps.DB)
	profileRepo := repository.NewProfileRepository(deps.DB, social.ProfileCacheSize, social.ProfileCacheTTL)
	friendCache := repository.NewFriendCacheRepository(deps.Redis, repository.FriendCacheOptions{
		TTL:                social.FriendListTTL,
		BreakerMaxFailures: social.BreakerMaxFailures,
		BreakerOpenTimeout: social.BreakerOpenTimeout,
	})

	// 2. 在线表与推送
	registry := presence.NewRegistry()
	activity := presence.NewActivityTracker(deps.Redis, activityThrottle)
	registerOnlineGauge(prometheus.DefaultRegisterer, registry)
	dispatcher := dispatch.NewDispatcher(registry, groupRepo, dispatchTimeout)

	// 3. 服务层
	friendService := service.NewFriendService(relRepo, msgRepo, profileRepo, friendCache, dispatcher)
	messageService := service.NewMessageService(msgRepo, relRepo, groupRepo, profileRepo, friendCache, dispatcher, service.MessageOptions{
		MaxContentLength: social.MaxMessageLength,
		DefaultPageSize:  social.DefaultPageSize,
		MaxPageSize:      social.MaxPageSize,
	})
	groupService := service.NewGroupService(groupRepo, msgRepo, profileRepo)
	planService := service.NewPlanService(planRepo, relRepo, msgRepo, profileRepo, friendCache, dispatcher)

	// 4. 处理器与路由
	handlers := router.Handlers{
		Friend:  v1.NewFriendHandler(friendService, planService),
		Message: v1.NewMessageHandler(messageService),
		Group:   v1.NewGroupHandler(groupService),
		Plan:    v1.NewPlanHandler(planService),
		WS: handler.NewWSHandler(registry, messageService, activity, handler.WSOptions{
			UplinkRate:  cfg.Server.WSUplinkRate,
			UplinkBurst: cfg.Server.WSUplinkBurst,
		}),
	}
	r := router.InitRouter(handlers, router.Options{
		Limiter:        middleware.NewRateLimiter(deps.Redis, cfg.Server.RateLimit, cfg.Server.RateBurst),
		Activity:       activity,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	return &Server{
		registry: registry,
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           r,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
	}
}

// Handler 返回路由，测试中可直接挂到 httptest.Server
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry 在线会话表
func (s *Server) Registry() *presence.Registry {
	return s.registry
}

// Start 启动监听，优雅关闭时返回 http.ErrServerClosed
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// registerOnlineGauge 注册失败只告警，不影响启动
func registerOnlineGauge(reg prometheus.Registerer, registry *presence.Registry) {
	if err := metrics.RegisterOnlineGauge(reg, registry.Count); err != nil {
		logger.Warn(context.Background(), "注册在线会话指标失败", logger.ErrorField("error", err))
	}
}

// Shutdown 先断开全部 WebSocket，再等待进行中的请求结束
func (s *Server) Shutdown(ctx context.Context) error {
	s.registry.Shutdown()
	return s.httpServer.Shutdown(ctx)
}
