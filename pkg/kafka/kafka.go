package kafka

import (
	"context"
	"errors"
	"time"

	"FitSocial/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer 对 kafka.Writer 的薄封装，topic 由每条消息指定。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 创建生产者。brokers 为空时返回错误。
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		ErrorLogger:            kafka.LoggerFunc(errorLogf),
	}
	return &Producer{writer: w}, nil
}

// Send 同步写入一条消息
func (p *Producer) Send(ctx context.Context, topic string, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NewReader 创建消费组 Reader，手动提交 offset。
func NewReader(cfg config.KafkaConfig, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.ConsumerConfig.GroupID,
		Topic:          topic,
		MinBytes:       cfg.ConsumerConfig.MinBytes,
		MaxBytes:       cfg.ConsumerConfig.MaxBytes,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
		ErrorLogger:    kafka.LoggerFunc(errorLogf),
	})
}

func errorLogf(format string, args ...interface{}) {
	zap.S().Warnf("[kafka] "+format, args...)
}
