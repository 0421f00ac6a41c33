package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pparuzel/courier/config"
)

// ============================================================================
//                              配置加载（CLI 专用）
// ============================================================================

// 环境变量（均使用 COURIER_ 前缀）
const (
	EnvPrefix      = "COURIER_"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
	EnvDiagnostics = "DIAGNOSTICS"
	EnvMetricsAddr = "METRICS_ADDR"
	EnvRopeCycle   = "ROPE_CYCLE"
	EnvAirTime     = "AIR_TIME"
)

// loadConfigFile 从 JSON 文件加载配置
func loadConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: 用户指定的配置文件路径是预期行为
	if err != nil {
		return nil, err
	}
	return config.FromJSON(data)
}

// applyEnvOverrides 应用环境变量覆盖配置
//
// 环境变量优先级高于配置文件，但低于命令行参数。
func applyEnvOverrides(cfg *config.Config, getenv func(string) string) error {
	if v := getenv(EnvPrefix + EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv(EnvPrefix + EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv(EnvPrefix + EnvDiagnostics); v != "" {
		cfg.Diagnostics.Output = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv(EnvPrefix + EnvMetricsAddr); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := getenv(EnvPrefix + EnvRopeCycle); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvRopeCycle, err)
		}
		cfg.Demo.RopeCycle = config.Duration(d)
	}
	if v := getenv(EnvPrefix + EnvAirTime); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, EnvAirTime, err)
		}
		cfg.Demo.AirTime = config.Duration(d)
	}
	return nil
}

// applyFlagOverrides 应用显式设置的命令行参数
func applyFlagOverrides(cfg *config.Config, f *cliFlags) {
	if f.isSet("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if f.isSet("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if f.isSet("diagnostics") {
		cfg.Diagnostics.Output = f.diagnostics
	}
	if f.isSet("metrics-addr") {
		cfg.Metrics.ListenAddr = f.metricsAddr
	}
}

// buildConfig 构建最终配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（COURIER_* 前缀）
//  3. 配置文件
//  4. 默认值
func buildConfig(f *cliFlags, getenv func(string) string) (*config.Config, error) {
	cfg := config.NewConfig()
	if f.configFile != "" {
		var err error
		cfg, err = loadConfigFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
	}
	if err := applyEnvOverrides(cfg, getenv); err != nil {
		return nil, err
	}
	applyFlagOverrides(cfg, f)
	return config.ValidateAndFix(cfg)
}
