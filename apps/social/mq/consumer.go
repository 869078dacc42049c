package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// MessageReader kafka.Reader 的最小子集，便于测试替换
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RedisRetryConsumer 消费重试队列并重放 Redis 命令。
// 重放失败且未超过 MaxRetries 时重新投递（RetryCount+1），否则记录日志后丢弃。
type RedisRetryConsumer struct {
	reader  MessageReader
	client  *redis.Client
	timeout time.Duration
}

func NewRedisRetryConsumer(reader MessageReader, client *redis.Client) *RedisRetryConsumer {
	return &RedisRetryConsumer{reader: reader, client: client, timeout: 3 * time.Second}
}

// Run 阻塞消费直到 ctx 取消
func (c *RedisRetryConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Warn(ctx, "拉取 Redis 重试任务失败", logger.ErrorField("error", err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			logger.Warn(ctx, "提交 Redis 重试任务 offset 失败", logger.ErrorField("error", err))
		}
	}
}

func (c *RedisRetryConsumer) Close() error {
	return c.reader.Close()
}

func (c *RedisRetryConsumer) handle(ctx context.Context, msg kafka.Message) {
	var task RedisTask
	if err := json.Unmarshal(msg.Value, &task); err != nil {
		logger.Error(ctx, "Redis 重试任务解析失败，丢弃", logger.ErrorField("error", err))
		return
	}
	taskCtx := ctxmeta.WithTraceID(ctx, task.TraceID)
	taskCtx = ctxmeta.WithUserUUID(taskCtx, task.UserUUID)

	execCtx, cancel := context.WithTimeout(taskCtx, c.timeout)
	err := c.Execute(execCtx, task)
	cancel()
	if err == nil {
		logger.Info(taskCtx, "Redis 重试任务执行成功",
			logger.String("task_type", string(task.Type)),
			logger.Int("retry_count", task.RetryCount),
		)
		return
	}

	if task.RetryCount+1 >= task.MaxRetries {
		logger.Error(taskCtx, "Redis 重试任务超过最大重试次数，放弃",
			logger.String("task_type", string(task.Type)),
			logger.String("command", task.Command),
			logger.Int("retry_count", task.RetryCount),
			logger.ErrorField("error", err),
		)
		return
	}

	task.RetryCount++
	task = task.WithError(err)
	if sendErr := SendRedisTask(taskCtx, task); sendErr != nil {
		logger.Error(taskCtx, "Redis 重试任务重新投递失败",
			logger.ErrorField("error", sendErr),
		)
	}
}

// Execute 执行一条 Redis 任务
func (c *RedisRetryConsumer) Execute(ctx context.Context, task RedisTask) error {
	if c.client == nil {
		return errors.New("redis client not initialized")
	}
	switch task.Type {
	case CmdSimple:
		if task.Command == "" {
			return errors.New("empty redis command")
		}
		args := append([]interface{}{task.Command}, task.Args...)
		return ignoreNil(c.client.Do(ctx, args...).Err())
	case CmdPipeline:
		pipe := c.client.Pipeline()
		for _, cmd := range task.PipelineCmds {
			args := append([]interface{}{cmd.Command}, cmd.Args...)
			pipe.Do(ctx, args...)
		}
		_, err := pipe.Exec(ctx)
		return ignoreNil(err)
	case CmdLua:
		return ignoreNil(c.client.Eval(ctx, task.LuaScript, task.LuaKeys, task.LuaArgs...).Err())
	default:
		return fmt.Errorf("unknown redis task type: %s", task.Type)
	}
}

func ignoreNil(err error) error {
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
