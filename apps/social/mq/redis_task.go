package mq

import (
	"context"
	"time"

	"FitSocial/pkg/ctxmeta"
)

// ==================== Redis 任务定义 ====================

type CommandType string

const (
	CmdSimple   CommandType = "simple"   // Del, Set, Incr...
	CmdPipeline CommandType = "pipeline" // 批量操作
	CmdLua      CommandType = "lua"      // Lua 脚本
)

const defaultMaxRetries = 3

// RedisTask 存放在 Kafka 里的消息体
type RedisTask struct {
	Type CommandType `json:"type"`

	// 普通命令 (如 DEL key)
	Command string        `json:"command,omitempty"`
	Args    []interface{} `json:"args,omitempty"`

	// Pipeline
	PipelineCmds []RedisCmd `json:"pipeline_cmds,omitempty"`

	// Lua 脚本
	LuaScript string        `json:"lua_script,omitempty"`
	LuaKeys   []string      `json:"lua_keys,omitempty"`
	LuaArgs   []interface{} `json:"lua_args,omitempty"`

	// 元数据（用于追踪和重试控制）
	TraceID     string    `json:"trace_id,omitempty"`
	UserUUID    string    `json:"user_uuid,omitempty"`
	DeviceID    string    `json:"device_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	RetryCount  int       `json:"retry_count"`
	MaxRetries  int       `json:"max_retries"`
	OriginalErr string    `json:"original_err"`
	Source      string    `json:"source,omitempty"`
}

type RedisCmd struct {
	Command string        `json:"command"`
	Args    []interface{} `json:"args"`
}

// ==================== 构造器函数 ====================

// BuildDelTask 构造一个 DEL 任务
func BuildDelTask(keys ...string) RedisTask {
	args := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		args = append(args, k)
	}
	return RedisTask{
		Type:       CmdSimple,
		Command:    "del",
		Args:       args,
		Timestamp:  time.Now(),
		MaxRetries: defaultMaxRetries,
	}
}

// BuildIncrTask 构造一个 INCR 任务
func BuildIncrTask(key string) RedisTask {
	return RedisTask{
		Type:       CmdSimple,
		Command:    "incr",
		Args:       []interface{}{key},
		Timestamp:  time.Now(),
		MaxRetries: defaultMaxRetries,
	}
}

// BuildPipelineTask 构造一个 Pipeline 任务
func BuildPipelineTask(cmds []RedisCmd) RedisTask {
	return RedisTask{
		Type:         CmdPipeline,
		PipelineCmds: cmds,
		Timestamp:    time.Now(),
		MaxRetries:   defaultMaxRetries,
	}
}

// BuildLuaTask 构造一个 Lua 脚本任务
func BuildLuaTask(script string, keys []string, args ...interface{}) RedisTask {
	return RedisTask{
		Type:       CmdLua,
		LuaScript:  script,
		LuaKeys:    keys,
		LuaArgs:    args,
		Timestamp:  time.Now(),
		MaxRetries: defaultMaxRetries,
	}
}

// ==================== 链式方法 ====================

// WithContext 为任务添加上下文信息
func (t RedisTask) WithContext(ctx context.Context) RedisTask {
	t.TraceID = ctxmeta.TraceID(ctx)
	t.UserUUID = ctxmeta.UserUUID(ctx)
	t.DeviceID = ctxmeta.DeviceID(ctx)
	return t
}

// WithError 为任务添加错误信息
func (t RedisTask) WithError(err error) RedisTask {
	if err != nil {
		t.OriginalErr = err.Error()
	}
	return t
}

// WithSource 为任务添加来源信息
func (t RedisTask) WithSource(source string) RedisTask {
	t.Source = source
	return t
}

// WithMaxRetries 设置最大重试次数
func (t RedisTask) WithMaxRetries(maxRetries int) RedisTask {
	t.MaxRetries = maxRetries
	return t
}

// partitionKey 同一个 key 的任务落在同一分区，保证重放顺序
func (t RedisTask) partitionKey() string {
	switch t.Type {
	case CmdSimple:
		if len(t.Args) > 0 {
			if k, ok := t.Args[0].(string); ok {
				return k
			}
		}
	case CmdLua:
		if len(t.LuaKeys) > 0 {
			return t.LuaKeys[0]
		}
	case CmdPipeline:
		if len(t.PipelineCmds) > 0 && len(t.PipelineCmds[0].Args) > 0 {
			if k, ok := t.PipelineCmds[0].Args[0].(string); ok {
				return k
			}
		}
	}
	return ""
}
