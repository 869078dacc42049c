package config

// LoggerConfig 日志配置。
type LoggerConfig struct {
	Level            string   `json:"level" yaml:"level" mapstructure:"level"`                                  // debug/info/warn/error
	Encoding         string   `json:"encoding" yaml:"encoding" mapstructure:"encoding"`                         // console 或 json
	EnableColor      bool     `json:"enableColor" yaml:"enableColor" mapstructure:"enableColor"`                // console 模式下是否彩色输出
	OutputPaths      []string `json:"outputPaths" yaml:"outputPaths" mapstructure:"outputPaths"`                // 普通日志输出，支持 stdout/stderr/文件路径
	ErrorOutputPaths []string `json:"errorOutputPaths" yaml:"errorOutputPaths" mapstructure:"errorOutputPaths"` // zap 内部错误输出
	Development      bool     `json:"development" yaml:"development" mapstructure:"development"`                // 开发模式（error 级别附带堆栈）
}

// DefaultLoggerConfig 返回本地开发的默认日志配置。
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:            "info",
		Encoding:         "console",
		EnableColor:      true,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		Development:      false,
	}
}
