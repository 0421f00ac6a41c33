package config

import (
	"fmt"
	"net"
	"strings"
)

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// ListenAddr 指标服务监听地址，为空时不启动
	ListenAddr string `json:"listen_addr"`

	// Path 指标路径
	// 默认 "/metrics"
	Path string `json:"path"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Path: "/metrics",
	}
}

// Enabled 是否启动指标服务
func (c MetricsConfig) Enabled() bool {
	return c.ListenAddr != ""
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/': %q", c.Path)
	}
	if c.ListenAddr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("metrics.listen_addr: %w", err)
	}
	return nil
}
