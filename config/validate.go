package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateAll 验证整个配置的有效性
//
// 与 Config.Validate 相同，额外处理 nil 配置。
func ValidateAll(c *Config) error {
	if c == nil {
		return errors.New("config is nil")
	}
	return c.Validate()
}

// ValidateAndFix 验证配置并尝试自动修复常见问题
//
// 可修复的问题：
//   - 空的诊断输出 -> stderr
//   - 空的日志级别或格式 -> 默认值
//   - 指标路径缺少前导 '/' -> 补齐
//   - 非正的演示时长 -> 默认值
func ValidateAndFix(c *Config) (*Config, error) {
	if c == nil {
		return NewConfig(), nil
	}

	if c.Diagnostics.Output == "" {
		c.Diagnostics.Output = DiagnosticsStderr
	}

	def := DefaultLogConfig()
	if c.Log.Level == "" {
		c.Log.Level = def.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Format
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsConfig().Path
	} else if !strings.HasPrefix(c.Metrics.Path, "/") {
		c.Metrics.Path = "/" + c.Metrics.Path
	}

	demo := DefaultDemoConfig()
	if c.Demo.RopeCycle <= 0 {
		c.Demo.RopeCycle = demo.RopeCycle
	}
	if c.Demo.AirTime <= 0 {
		c.Demo.AirTime = demo.AirTime
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed after fixes: %w", err)
	}
	return c, nil
}

// MustValidate 验证配置，如果失败则 panic
//
// 仅用于初始化阶段或测试代码。
func MustValidate(c *Config) {
	if err := ValidateAll(c); err != nil {
		panic(fmt.Sprintf("config validation failed: %v", err))
	}
}
