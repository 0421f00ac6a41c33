package courier

import (
	"context"

	"go.uber.org/fx"

	pkgif "github.com/pparuzel/courier/pkg/interfaces"
	"github.com/pparuzel/courier/pkg/lib/log"
)

// ============================================================================
// Fx 模块
// ============================================================================

const (
	// eventsGroup 事件类型值组
	eventsGroup = `group:"courier_events"`
	// optionsGroup 分发器选项值组
	optionsGroup = `group:"courier_options"`
)

// Params Fx 模块输入参数
type Params struct {
	fx.In

	// Events 由 ProvideEvent 提供的事件类型
	Events []EventType `group:"courier_events"`

	// Options 由 ProvideOption 提供的额外选项
	Options []Option `group:"courier_options"`

	// Observer 可选的簿记观察者（例如 pkg/metrics.Collector）
	Observer pkgif.Observer `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Dispatcher *Dispatcher
	Sizer      pkgif.Dispatcher
}

// Module 返回 Fx 模块
//
// 事件类型通过 ProvideEvent 加入值组；值组无序，
// 因此 EventTypes() 的顺序在 Fx 装配时不保证与提供顺序一致。
//
//	app := fx.New(
//	    courier.Module(),
//	    courier.ProvideEvent[JumpEvent](),
//	    courier.ProvideEvent[GameOverEvent](),
//	    fx.Invoke(func(d *courier.Dispatcher) { ... }),
//	)
func Module() fx.Option {
	return fx.Module(Name,
		fx.Provide(ProvideDispatcher),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEvent 将 E 加入分发器的事件类型集合
func ProvideEvent[E any]() fx.Option {
	return fx.Provide(fx.Annotate(TypeOf[E], fx.ResultTags(eventsGroup)))
}

// ProvideOption 为 Fx 装配的分发器追加选项
func ProvideOption(opt Option) fx.Option {
	return fx.Provide(fx.Annotate(func() Option { return opt }, fx.ResultTags(optionsGroup)))
}

// ProvideDispatcher 提供 Dispatcher 实例
func ProvideDispatcher(p Params) (Result, error) {
	opts := make([]Option, 0, len(p.Options)+2)
	opts = append(opts, WithEvents(p.Events...))
	if p.Observer != nil {
		opts = append(opts, WithObserver(p.Observer))
	}
	opts = append(opts, p.Options...)

	d, err := New(opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Dispatcher: d, Sizer: d}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC         fx.Lifecycle
	Dispatcher *Dispatcher
}

// registerLifecycle 注册生命周期
//
// 停止时清空全部监听器，释放监听器捕获的对象。
func registerLifecycle(input lifecycleInput) {
	d := input.Dispatcher
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Debug("事件分发器就绪",
				"id", log.TruncateID(d.ID(), 8),
				"types", d.EventTypes())
			return nil
		},
		OnStop: func(_ context.Context) error {
			removed := d.Clear()
			logger.Debug("事件分发器停止",
				"id", log.TruncateID(d.ID(), 8),
				"removed", removed)
			return nil
		},
	})
}
