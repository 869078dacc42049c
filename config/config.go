package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 FITSOCIAL_DATABASE_DSN。
const EnvPrefix = "FITSOCIAL"

// AppConfig 进程级配置汇总。
type AppConfig struct {
	Logger   LoggerConfig   `json:"logger" yaml:"logger" mapstructure:"logger"`
	Database DatabaseConfig `json:"database" yaml:"database" mapstructure:"database"`
	Redis    RedisConfig    `json:"redis" yaml:"redis" mapstructure:"redis"`
	Kafka    KafkaConfig    `json:"kafka" yaml:"kafka" mapstructure:"kafka"`
	Async    AsyncConfig    `json:"async" yaml:"async" mapstructure:"async"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	JWT      JWTConfig      `json:"jwt" yaml:"jwt" mapstructure:"jwt"`
	Social   SocialConfig   `json:"social" yaml:"social" mapstructure:"social"`
}

// DefaultAppConfig 返回全部模块的默认配置。
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Logger:   DefaultLoggerConfig(),
		Database: DefaultDatabaseConfig(),
		Redis:    DefaultRedisConfig(),
		Kafka:    DefaultKafkaConfig(),
		Async:    DefaultAsyncConfig(),
		Server:   DefaultServerConfig(),
		JWT:      DefaultJWTConfig(),
		Social:   DefaultSocialConfig(),
	}
}

// envKeys 允许通过环境变量覆盖的配置项。
var envKeys = []string{
	"logger.level",
	"logger.encoding",
	"database.driver",
	"database.dsn",
	"redis.addr",
	"redis.password",
	"kafka.enabled",
	"kafka.brokers",
	"server.addr",
	"server.mode",
	"jwt.secret",
	"social.nodeId",
}

// Load 加载配置，优先级：环境变量 > 配置文件 > 默认值。
// path 为空或文件不存在时只使用默认值与环境变量。
func Load(path string) (AppConfig, error) {
	cfg := DefaultAppConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return cfg, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return cfg, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
