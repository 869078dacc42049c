package config

import "time"

// ServerConfig HTTP / WebSocket 服务配置。
type ServerConfig struct {
	Addr              string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	Mode              string        `json:"mode" yaml:"mode" mapstructure:"mode"` // gin 模式 debug/release/test
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout" mapstructure:"readHeaderTimeout"`
	ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout" mapstructure:"readTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout" mapstructure:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout" mapstructure:"idleTimeout"`
	RequestTimeout    time.Duration `json:"requestTimeout" yaml:"requestTimeout" mapstructure:"requestTimeout"` // 单请求处理超时
	RateLimit         float64       `json:"rateLimit" yaml:"rateLimit" mapstructure:"rateLimit"`                // 每用户每秒令牌数
	RateBurst         int           `json:"rateBurst" yaml:"rateBurst" mapstructure:"rateBurst"`                // 令牌桶容量
	WSUplinkRate      float64       `json:"wsUplinkRate" yaml:"wsUplinkRate" mapstructure:"wsUplinkRate"`       // 单连接上行帧速率
	WSUplinkBurst     int           `json:"wsUplinkBurst" yaml:"wsUplinkBurst" mapstructure:"wsUplinkBurst"`
}

// DefaultServerConfig 返回默认服务配置。
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:              ":8080",
		Mode:              "release",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		RequestTimeout:    10 * time.Second,
		RateLimit:         20,
		RateBurst:         40,
		WSUplinkRate:      10,
		WSUplinkBurst:     20,
	}
}

// JWTConfig 令牌校验配置。签发不在本服务内，这里只需要密钥。
type JWTConfig struct {
	Secret string        `json:"secret" yaml:"secret" mapstructure:"secret"`
	Issuer string        `json:"issuer" yaml:"issuer" mapstructure:"issuer"`
	TTL    time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// DefaultJWTConfig 返回默认 JWT 配置。
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		Secret: "fitsocial-dev-secret",
		Issuer: "fitsocial",
		TTL:    2 * time.Hour,
	}
}

// SocialConfig 社交业务参数。
type SocialConfig struct {
	NodeID             int64         `json:"nodeId" yaml:"nodeId" mapstructure:"nodeId"`                                     // 雪花算法节点号
	FriendListTTL      time.Duration `json:"friendListTtl" yaml:"friendListTtl" mapstructure:"friendListTtl"`                // 好友列表缓存 TTL
	ProfileCacheSize   int           `json:"profileCacheSize" yaml:"profileCacheSize" mapstructure:"profileCacheSize"`       // 本地资料缓存容量
	ProfileCacheTTL    time.Duration `json:"profileCacheTtl" yaml:"profileCacheTtl" mapstructure:"profileCacheTtl"`          // 本地资料缓存 TTL
	DefaultPageSize    int           `json:"defaultPageSize" yaml:"defaultPageSize" mapstructure:"defaultPageSize"`          // 历史消息默认分页
	MaxPageSize        int           `json:"maxPageSize" yaml:"maxPageSize" mapstructure:"maxPageSize"`                      // 历史消息最大分页
	MaxMessageLength   int           `json:"maxMessageLength" yaml:"maxMessageLength" mapstructure:"maxMessageLength"`       // 单条消息最大字符数
	BreakerMaxFailures uint32        `json:"breakerMaxFailures" yaml:"breakerMaxFailures" mapstructure:"breakerMaxFailures"` // 缓存熔断连续失败阈值
	BreakerOpenTimeout time.Duration `json:"breakerOpenTimeout" yaml:"breakerOpenTimeout" mapstructure:"breakerOpenTimeout"` // 熔断打开后多久半开
}

// DefaultSocialConfig 返回默认社交业务参数。
func DefaultSocialConfig() SocialConfig {
	return SocialConfig{
		NodeID:             1,
		FriendListTTL:      time.Hour,
		ProfileCacheSize:   4096,
		ProfileCacheTTL:    5 * time.Minute,
		DefaultPageSize:    20,
		MaxPageSize:        100,
		MaxMessageLength:   2000,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 10 * time.Second,
	}
}
