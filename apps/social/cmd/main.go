package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FitSocial/apps/social/internal/server"
	"FitSocial/apps/social/mq"
	"FitSocial/config"
	"FitSocial/model"
	"FitSocial/pkg/async"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/database"
	"FitSocial/pkg/idgen"
	"FitSocial/pkg/kafka"
	"FitSocial/pkg/logger"
	pkgredis "FitSocial/pkg/redis"
	"FitSocial/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.StringP("config", "c", "config.yaml", "配置文件路径，不存在时使用默认值与环境变量")
	flag.Parse()

	// 启动期日志统一带 trace_id=0
	ctx := ctxmeta.WithTraceID(context.Background(), "0")

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志（后续模块初始化都依赖日志输出）
	l, err := logger.Build(cfg.Logger)
	if err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	logger.ReplaceGlobal(l)
	defer func() {
		_ = l.Sync()
	}()

	// 3. ID 生成器、协程池、JWT
	if err := idgen.Init(cfg.Social.NodeID); err != nil {
		logger.Fatal(ctx, "初始化雪花 ID 失败", logger.ErrorField("error", err))
	}
	if err := async.Init(cfg.Async); err != nil {
		logger.Fatal(ctx, "初始化协程池失败", logger.ErrorField("error", err))
	}
	defer func() {
		_ = async.Release()
	}()
	util.InitJWT(cfg.JWT)

	// 4. 数据库
	db, err := database.Build(cfg.Database)
	if err != nil {
		logger.Fatal(ctx, "初始化数据库失败",
			logger.String("driver", cfg.Database.Driver),
			logger.ErrorField("error", err),
		)
	}
	database.ReplaceGlobal(db)
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal(ctx, "自动建表失败", logger.ErrorField("error", err))
		}
	}
	logger.Info(ctx, "数据库初始化成功", logger.String("driver", cfg.Database.Driver))

	// 5. Redis：不可用时降级启动，缓存回源、限流退化为本地
	redisClient, err := pkgredis.Build(cfg.Redis)
	if err != nil {
		logger.Warn(ctx, "Redis 初始化失败，降级为无 Redis 模式",
			logger.String("addr", cfg.Redis.Addr),
			logger.ErrorField("error", err),
		)
		redisClient = nil
	} else {
		pkgredis.ReplaceGlobal(redisClient)
		logger.Info(ctx, "Redis 初始化成功", logger.String("addr", cfg.Redis.Addr))
	}

	// 6. Kafka 重试队列：缓存失效失败的命令投递到队列，由消费者重放
	rootCtx, stopConsumers := context.WithCancel(ctx)
	defer stopConsumers()
	if cfg.Kafka.Enabled {
		startRedisRetry(rootCtx, cfg.Kafka, redisClient)
	}

	// 7. 组装服务
	gin.SetMode(cfg.Server.Mode)
	srv := server.New(cfg, server.Deps{DB: db, Redis: redisClient})

	go func() {
		logger.Info(ctx, "FitSocial 服务启动中", logger.String("addr", cfg.Server.Addr))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "FitSocial 服务启动失败", logger.ErrorField("error", err))
		}
	}()

	// 8. 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info(ctx, "收到关闭信号，开始优雅停机", logger.String("signal", sig.String()))

	// 9. 先断开长连接再关闭 HTTP，最后停止消费者
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "FitSocial 服务优雅停机失败", logger.ErrorField("error", err))
	}
	stopConsumers()
	mq.InitProducer(nil, "")

	logger.Info(ctx, "FitSocial 服务已退出")
}

// startRedisRetry 注册重试生产者，Redis 可用时启动消费者
func startRedisRetry(ctx context.Context, cfg config.KafkaConfig, redisClient *redis.Client) {
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		logger.Warn(ctx, "Kafka 生产者初始化失败，Redis 失败任务不再重试", logger.ErrorField("error", err))
		return
	}
	mq.InitProducer(producer, cfg.RedisRetryTopic)
	go func() {
		<-ctx.Done()
		_ = producer.Close()
	}()

	if redisClient == nil {
		return
	}
	consumer := mq.NewRedisRetryConsumer(kafka.NewReader(cfg, cfg.RedisRetryTopic), redisClient)
	go func() {
		defer func() {
			_ = consumer.Close()
		}()
		if err := consumer.Run(ctx); err != nil {
			logger.Error(ctx, "Redis 重试消费者退出", logger.ErrorField("error", err))
		}
	}()
	logger.Info(ctx, "Redis 重试队列已启动", logger.String("topic", cfg.RedisRetryTopic))
}
