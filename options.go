package courier

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	pkgif "github.com/pparuzel/courier/pkg/interfaces"
)

// Option 分发器配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 声明的事件类型（按声明顺序）
	events []EventType

	// 未声明类型投递时的诊断输出
	diagnostics *zap.Logger

	// 簿记观察者
	observer pkgif.Observer

	// 实例名称（日志与指标使用）
	name string
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{
		observer: pkgif.NopObserver{},
		name:     Name,
	}
}

// apply 依次应用选项，返回第一个错误
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
//                              事件类型选项
// ============================================================================

// WithEvents 声明分发器接受的事件类型
//
// 可以多次使用，类型按出现顺序累加。构造完成后类型集合不再变化。
//
//	d, err := courier.New(courier.WithEvents(
//	    courier.TypeOf[JumpEvent](),
//	    courier.TypeOf[GameOverEvent](),
//	))
func WithEvents(types ...EventType) Option {
	return func(o *options) error {
		for _, t := range types {
			if t.IsZero() {
				return ErrInvalidEventType
			}
		}
		o.events = append(o.events, types...)
		return nil
	}
}

// ============================================================================
//                              诊断选项
// ============================================================================

// WithDiagnostics 将诊断行写入 w（默认 os.Stderr）
//
// 每条诊断占一行，以 "warning" 开头。
func WithDiagnostics(w io.Writer) Option {
	return func(o *options) error {
		if w == nil {
			return errors.New("diagnostics writer is nil")
		}
		o.diagnostics = NewDiagnostics(w)
		return nil
	}
}

// WithDiagnosticLogger 使用调用方提供的 zap logger 输出诊断
//
// 诊断以 Warn 级别写入 l，行格式由 l 的编码器决定。
// 要保持以 "warning" 开头的行，使用 NewDiagnosticsCore 或 DiagnosticEncoderConfig 构建 l：
//
//	core := zapcore.NewTee(appCore, courier.NewDiagnosticsCore(zapcore.AddSync(os.Stderr), zapcore.WarnLevel))
//	d, err := courier.New(events, courier.WithDiagnosticLogger(zap.New(core)))
func WithDiagnosticLogger(l *zap.Logger) Option {
	return func(o *options) error {
		if l == nil {
			return errors.New("diagnostic logger is nil")
		}
		o.diagnostics = l
		return nil
	}
}

// WithoutDiagnostics 关闭诊断输出
func WithoutDiagnostics() Option {
	return func(o *options) error {
		o.diagnostics = zap.NewNop()
		return nil
	}
}

// ============================================================================
//                              观测选项
// ============================================================================

// WithObserver 设置簿记观察者
//
// 例如 pkg/metrics.Collector。nil 表示不观测。
func WithObserver(obs pkgif.Observer) Option {
	return func(o *options) error {
		if obs == nil {
			obs = pkgif.NopObserver{}
		}
		o.observer = obs
		return nil
	}
}

// WithName 设置实例名称
func WithName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("name must not be empty")
		}
		o.name = name
		return nil
	}
}
