package config

import (
	"fmt"

	"github.com/pparuzel/courier/pkg/lib/log"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug、info、warn、error
	// 默认 "info"
	Level string `json:"level"`

	// Format 输出格式：text 或 json
	// 默认 "text"
	Format string `json:"format"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: string(log.FormatText),
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	if _, err := log.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch log.Format(c.Format) {
	case log.FormatText, log.FormatJSON:
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Format)
	}
}
