package mq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// ErrProducerNotReady 未配置 Kafka 时发送重试任务返回此错误
var ErrProducerNotReady = errors.New("redis retry producer not initialized")

// Sender Kafka 写入抽象，由 pkg/kafka.Producer 实现
type Sender interface {
	Send(ctx context.Context, topic string, key, value []byte) error
}

var (
	producerMu sync.RWMutex
	producer   Sender
	retryTopic string
)

// InitProducer 注册重试队列生产者；传入 nil 表示关闭重试队列
func InitProducer(s Sender, topic string) {
	producerMu.Lock()
	producer = s
	retryTopic = topic
	producerMu.Unlock()
}

// SendRedisTask 将失败的 Redis 操作投递到重试队列
func SendRedisTask(ctx context.Context, task RedisTask) error {
	producerMu.RLock()
	s, topic := producer, retryTopic
	producerMu.RUnlock()

	if s == nil {
		return ErrProducerNotReady
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return s.Send(ctx, topic, []byte(task.partitionKey()), data)
}
