package config

import "time"

// DatabaseConfig 关系库配置。
// Driver 支持 mysql / postgres / sqlite，Replicas 非空时启用读写分离。
type DatabaseConfig struct {
	Driver          string        `json:"driver" yaml:"driver" mapstructure:"driver"`
	DSN             string        `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	Replicas        []string      `json:"replicas" yaml:"replicas" mapstructure:"replicas"`                      // 只读副本 DSN 列表
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns" mapstructure:"maxOpenConns"`          // 最大打开连接数
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns" mapstructure:"maxIdleConns"`          // 最大空闲连接数
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime" mapstructure:"connMaxLifetime"` // 连接最大生命周期
	ConnMaxIdleTime time.Duration `json:"connMaxIdleTime" yaml:"connMaxIdleTime" mapstructure:"connMaxIdleTime"` // 连接最大空闲时间
	SlowThreshold   time.Duration `json:"slowThreshold" yaml:"slowThreshold" mapstructure:"slowThreshold"`       // 慢 SQL 阈值
	AutoMigrate     bool          `json:"autoMigrate" yaml:"autoMigrate" mapstructure:"autoMigrate"`             // 启动时自动建表
}

// DefaultDatabaseConfig 返回本地开发的默认数据库配置。
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          "mysql",
		DSN:             "root:root@tcp(127.0.0.1:3306)/fitsocial?charset=utf8mb4&parseTime=True&loc=Local",
		MaxOpenConns:    50,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		SlowThreshold:   200 * time.Millisecond,
		AutoMigrate:     true,
	}
}
