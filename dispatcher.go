package courier

import (
	"fmt"
	"os"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pkgif "github.com/pparuzel/courier/pkg/interfaces"
	"github.com/pparuzel/courier/pkg/lib/log"
)

var logger = log.Logger("courier")

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "courier"
	// Description 模块描述
	Description = "同步事件分发器，按精确类型将事件路由到监听器"
)

// ============================================================================
// Dispatcher 实现
// ============================================================================

// Dispatcher 事件分发器
//
// 每个声明的事件类型对应一个通道，类型集合在 New 时固定。
// Dispatcher 不是并发安全的：多个 goroutine 访问同一实例时由调用方串行化。
type Dispatcher struct {
	id   string
	name string

	// channels 事件类型到通道的映射
	channels map[reflect.Type]*entry
	// order 声明顺序
	order []*entry

	// size 全部通道的监听器总数，由 Add/Remove/Clear 增量维护
	size int

	diagnostics *zap.Logger
	observer    pkgif.Observer
}

// entry 单个事件类型的通道
type entry struct {
	name string
	ch   channelHandle
}

var _ pkgif.Dispatcher = (*Dispatcher)(nil)

// New 创建事件分发器
//
// 至少需要通过 WithEvents 声明一个事件类型，否则返回 ErrNoEventTypes。
func New(opts ...Option) (*Dispatcher, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}
	if len(o.events) == 0 {
		return nil, ErrNoEventTypes
	}
	if o.diagnostics == nil {
		o.diagnostics = NewDiagnostics(os.Stderr)
	}

	d := &Dispatcher{
		id:          uuid.NewString(),
		name:        o.name,
		channels:    make(map[reflect.Type]*entry, len(o.events)),
		order:       make([]*entry, 0, len(o.events)),
		diagnostics: o.diagnostics,
		observer:    o.observer,
	}
	for _, et := range o.events {
		if _, dup := d.channels[et.typ]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEventType, et.Name())
		}
		e := &entry{name: et.Name(), ch: et.newChannel()}
		d.channels[et.typ] = e
		d.order = append(d.order, e)
	}

	logger.Debug("创建事件分发器",
		"id", log.TruncateID(d.id, 8),
		"name", d.name,
		"types", len(d.order))
	return d, nil
}

// MustNew 同 New，出错时 panic
//
// 用于包级变量等事件类型集合在编写时就已确定的场景。
func MustNew(opts ...Option) *Dispatcher {
	d, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// ID 返回实例标识
func (d *Dispatcher) ID() string {
	return d.id
}

// Name 返回实例名称
func (d *Dispatcher) Name() string {
	return d.name
}

// EventTypes 按声明顺序返回事件类型名称
func (d *Dispatcher) EventTypes() []string {
	names := make([]string, len(d.order))
	for i, e := range d.order {
		names[i] = e.name
	}
	return names
}

// Size 返回全部通道的监听器总数
func (d *Dispatcher) Size() int {
	return d.size
}

// Empty 监听器总数是否为 0
func (d *Dispatcher) Empty() bool {
	return d.size == 0
}

// Clear 移除全部通道的监听器，返回移除数量
func (d *Dispatcher) Clear() int {
	removed := 0
	for _, e := range d.order {
		if n := e.ch.Clear(); n > 0 {
			removed += n
			d.observer.ListenersRemoved(e.name, n)
		}
	}
	d.size = 0
	if removed > 0 {
		logger.Debug("清空事件分发器",
			"id", log.TruncateID(d.id, 8),
			"removed", removed)
	}
	return removed
}

// ============================================================================
// 内部方法
// ============================================================================

// removed 记录通道移除了 n 个监听器
func (d *Dispatcher) removed(e *entry, n int) {
	if n == 0 {
		return
	}
	d.size -= n
	d.observer.ListenersRemoved(e.name, n)
}

// unregistered 投递了未声明的事件类型
func (d *Dispatcher) unregistered(typ reflect.Type) {
	name := typ.String()
	d.diagnostics.Warn("a used type is not specified in the dispatcher",
		zap.String("type", name),
		zap.String("dispatcher", d.name))
	d.observer.Unregistered(name)
}
