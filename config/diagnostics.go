package config

import (
	"errors"
	"fmt"
)

// 诊断输出目标
const (
	DiagnosticsStderr  = "stderr"
	DiagnosticsStdout  = "stdout"
	DiagnosticsDiscard = "discard"
)

// DiagnosticsConfig 未声明类型投递的诊断输出配置
type DiagnosticsConfig struct {
	// Output 输出目标：stderr、stdout 或 discard
	// 默认 "stderr"
	Output string `json:"output"`
}

// DefaultDiagnosticsConfig 返回默认诊断配置
func DefaultDiagnosticsConfig() DiagnosticsConfig {
	return DiagnosticsConfig{
		Output: DiagnosticsStderr,
	}
}

// Validate 验证诊断配置
func (c DiagnosticsConfig) Validate() error {
	switch c.Output {
	case DiagnosticsStderr, DiagnosticsStdout, DiagnosticsDiscard:
		return nil
	case "":
		return errors.New("diagnostics.output must not be empty")
	default:
		return fmt.Errorf("diagnostics.output: unknown target %q", c.Output)
	}
}
