package router

import (
	"net/http"
	"time"

	"FitSocial/apps/social/internal/handler"
	"FitSocial/apps/social/internal/middleware"
	"FitSocial/apps/social/internal/presence"
	v1 "FitSocial/apps/social/internal/router/v1"
	"FitSocial/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Friend  *v1.FriendHandler
	Message *v1.MessageHandler
	Group   *v1.GroupHandler
	Plan    *v1.PlanHandler
	WS      *handler.WSHandler
}

// Options 路由级中间件参数，Limiter 为 nil 时不限流，Activity 为 nil 时不记录活跃
type Options struct {
	Limiter        *middleware.RateLimiter
	Activity       *presence.ActivityTracker
	RequestTimeout time.Duration
}

// InitRouter 初始化路由
func InitRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// 恢复中间件
	r.Use(middleware.GinRecovery(true))

	// 追踪中间件 (生成 trace_id)
	r.Use(util.TraceLogger())

	// 客户端 IP 中间件
	r.Use(middleware.ClientIPMiddleware())

	// 日志中间件
	r.Use(middleware.GinLogger())

	// Prometheus 监控中间件
	r.Use(middleware.PrometheusMiddleware())

	// 跨域中间件
	r.Use(middleware.CorsMiddleware())

	// 健康检查（无需认证）
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Prometheus 指标暴露接口
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 推送通道：长连接不套超时中间件
	ws := r.Group("/ws")
	if opts.Limiter != nil {
		ws.Use(middleware.IPRateLimitMiddleware(opts.Limiter))
	}
	ws.Use(middleware.JWTAuthMiddleware())
	ws.GET("", h.WS.ServeWS)

	// API 路由组，全部需要认证
	api := r.Group("/api/v1")
	if opts.Limiter != nil {
		api.Use(middleware.IPRateLimitMiddleware(opts.Limiter))
	}
	api.Use(middleware.JWTAuthMiddleware())
	if opts.Limiter != nil {
		api.Use(middleware.UserRateLimitMiddleware(opts.Limiter))
	}
	if opts.Activity != nil {
		api.Use(middleware.DeviceActiveMiddleware(opts.Activity))
	}
	if opts.RequestTimeout > 0 {
		api.Use(middleware.TimeoutMiddleware(opts.RequestTimeout))
	}
	{
		friends := api.Group("/friends")
		{
			friends.GET("", h.Friend.ListFriends)
			friends.GET("/plans", h.Friend.FriendsActivePlans)
			friends.POST("/requests", h.Friend.SendRequest)
			friends.GET("/requests/pending", h.Friend.ListPending)
			friends.PUT("/requests/:user_id/accept", h.Friend.AcceptRequest)
			friends.PUT("/requests/:user_id/decline", h.Friend.DeclineRequest)
			friends.DELETE("/:user_id", h.Friend.DeleteFriend)
			friends.POST("/:user_id/block", h.Friend.Block)
			friends.DELETE("/:user_id/block", h.Friend.Unblock)
		}

		messages := api.Group("/messages")
		{
			messages.POST("", h.Message.SendMessage)
			messages.PUT("/read/:user_id", h.Message.MarkAsRead)
			messages.GET("/unread/count", h.Message.UnreadCount)
			messages.GET("/history/:user_id", h.Message.ChatHistory)
			messages.PUT("/groups/:group_id/read", h.Message.MarkGroupAsRead)
			messages.GET("/groups/:group_id/history", h.Message.GroupHistory)
		}

		groups := api.Group("/groups")
		{
			groups.POST("", h.Group.CreateGroup)
			groups.GET("", h.Group.ListMyGroups)
			groups.POST("/:group_id/members", h.Group.AddMember)
			groups.GET("/:group_id/members", h.Group.ListMembers)
		}

		plans := api.Group("/plans")
		{
			plans.POST("", h.Plan.CreatePlan)
			plans.GET("/active", h.Plan.ActivePlans)
			plans.PUT("/:plan_id/complete", h.Plan.CompletePlan)
		}
	}

	return r
}
