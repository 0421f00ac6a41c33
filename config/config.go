// Package config 提供 courier 命令行与演示程序的配置
//
// 本包采用与子配置分文件的模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义，带默认值与 Validate
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	cfg := config.NewConfig()
//	cfg.Metrics.ListenAddr = "127.0.0.1:9464"
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

import (
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"
)

// Config 是 courier 的完整配置结构
//
//   - Diagnostics: 未声明类型投递的诊断输出
//   - Metrics: Prometheus 指标导出
//   - Log: 结构化日志
//   - Demo: 演示程序参数
type Config struct {
	// Diagnostics 诊断输出配置
	Diagnostics DiagnosticsConfig `json:"diagnostics"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// Demo 演示程序配置
	Demo DemoConfig `json:"demo"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Diagnostics: DefaultDiagnosticsConfig(),
		Metrics:     DefaultMetricsConfig(),
		Log:         DefaultLogConfig(),
		Demo:        DefaultDemoConfig(),
	}
}

// Validate 验证配置的有效性
//
// 收集全部子配置的错误，而不是在第一个错误处返回。
func (c *Config) Validate() error {
	return multierr.Combine(
		c.Diagnostics.Validate(),
		c.Metrics.Validate(),
		c.Log.Validate(),
		c.Demo.Validate(),
	)
}

// FromJSON 从 JSON 加载配置
//
// 未出现的字段保留默认值。
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ToJSON 将配置序列化为缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
