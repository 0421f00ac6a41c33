package courier

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDiagnostics 创建写入 w 的诊断 logger
//
// 输出不含时间戳，每条记录一行，以级别开头；Warn 级别渲染为 "warning:"：
//
//	warning: a used type is not specified in the dispatcher {"type": "main.Vec2", "dispatcher": "courier"}
func NewDiagnostics(w io.Writer) *zap.Logger {
	return zap.New(NewDiagnosticsCore(zapcore.AddSync(w), zapcore.WarnLevel))
}

// NewDiagnosticsCore 创建诊断格式的 zap core
//
// 用于与调用方自己的 core 组合（zapcore.NewTee），再交给 WithDiagnosticLogger。
func NewDiagnosticsCore(ws zapcore.WriteSyncer, level zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewCore(zapcore.NewConsoleEncoder(DiagnosticEncoderConfig()), ws, level)
}

// DiagnosticEncoderConfig 返回诊断行使用的编码配置
//
// 无时间戳，级别在行首，Warn 渲染为 "warning:"。
func DiagnosticEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      diagnosticLevelEncoder,
		ConsoleSeparator: " ",
	}
}

// diagnosticLevelEncoder 将级别渲染为小写单词加冒号
func diagnosticLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == zapcore.WarnLevel {
		enc.AppendString("warning:")
		return
	}
	enc.AppendString(l.String() + ":")
}
