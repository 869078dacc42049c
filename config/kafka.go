package config

// KafkaConsumerConfig 消费者配置。
type KafkaConsumerConfig struct {
	GroupID  string `json:"groupId" yaml:"groupId" mapstructure:"groupId"`
	MinBytes int    `json:"minBytes" yaml:"minBytes" mapstructure:"minBytes"`
	MaxBytes int    `json:"maxBytes" yaml:"maxBytes" mapstructure:"maxBytes"`
}

// KafkaConfig Kafka 配置。
// 当前只用于 Redis 失败任务的重试队列。
type KafkaConfig struct {
	Enabled         bool                `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Brokers         []string            `json:"brokers" yaml:"brokers" mapstructure:"brokers"`
	RedisRetryTopic string              `json:"redisRetryTopic" yaml:"redisRetryTopic" mapstructure:"redisRetryTopic"`
	ConsumerConfig  KafkaConsumerConfig `json:"consumer" yaml:"consumer" mapstructure:"consumer"`
}

// DefaultKafkaConfig 返回本地开发的默认 Kafka 配置。
func DefaultKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Enabled:         false,
		Brokers:         []string{"127.0.0.1:9092"},
		RedisRetryTopic: "fitsocial.redis.retry",
		ConsumerConfig: KafkaConsumerConfig{
			GroupID:  "fitsocial-redis-retry",
			MinBytes: 1,
			MaxBytes: 1 << 20,
		},
	}
}
