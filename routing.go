package courier

import (
	"fmt"
	"reflect"

	"github.com/pparuzel/courier/pkg/channel"
)

// ============================================================================
// 按类型路由
//
// Go 的方法不能带类型参数，因此按类型路由的操作是包级泛型函数，
// 第一个参数为分发器。
// ============================================================================

// channelFor 查找 E 对应的通道
func channelFor[E any](d *Dispatcher) (*channel.Channel[E], *entry, bool) {
	e, ok := d.channels[reflect.TypeFor[E]()]
	if !ok {
		return nil, nil, false
	}
	return e.ch.(*channel.Channel[E]), e, true
}

// Add 为事件类型 E 注册监听器
//
// E 未声明时返回 ErrUnregisteredEvent；这是编程错误，
// 在构造阶段就确定的订阅应使用 MustAdd。
func Add[E any](d *Dispatcher, fn channel.Listener[E]) (channel.Token[E], error) {
	if fn == nil {
		return channel.Token[E]{}, ErrNilListener
	}
	ch, e, ok := channelFor[E](d)
	if !ok {
		return channel.Token[E]{}, fmt.Errorf("%w: %s", ErrUnregisteredEvent, reflect.TypeFor[E]())
	}
	tok := ch.Add(fn)
	d.size++
	d.observer.ListenerAdded(e.name)
	return tok, nil
}

// MustAdd 同 Add，出错时 panic
func MustAdd[E any](d *Dispatcher, fn channel.Listener[E]) channel.Token[E] {
	tok, err := Add(d, fn)
	if err != nil {
		panic(err)
	}
	return tok
}

// AddMethod 将 obj 的方法注册为 E 的监听器
//
//	courier.AddMethod(d, world, (*World).Wipeout)
//
// 分发器只保存 obj 的引用，不管理其生命周期：
// 调用方必须保证 obj 在监听器被移除前保持有效。
func AddMethod[E any, O any](d *Dispatcher, obj *O, method func(*O, *E)) (channel.Token[E], error) {
	if obj == nil {
		return channel.Token[E]{}, ErrNilObject
	}
	if method == nil {
		return channel.Token[E]{}, ErrNilListener
	}
	return Add(d, func(event *E) { method(obj, event) })
}

// Remove 移除令牌对应的监听器，返回移除数量（0 或 1）
//
// 过期或其他分发器签发的令牌不会移除任何监听器。
func Remove[E any](d *Dispatcher, tok channel.Token[E]) int {
	ch, e, ok := channelFor[E](d)
	if !ok {
		return 0
	}
	n := ch.Remove(tok)
	d.removed(e, n)
	return n
}

// Post 将事件投递给 E 的全部监听器
//
// 监听器在当前 goroutine 上按注册顺序同步执行，收到的是 event 本身，
// 对事件的修改在 Post 返回后对调用方可见。event 为 nil 时投递零值。
//
// E 未声明时不调用任何监听器，只向诊断输出写一行 warning。
// 匹配使用 E 的精确类型：投递嵌入了已声明类型的结构体不会触发任何监听器。
func Post[E any](d *Dispatcher, event *E) {
	ch, e, ok := channelFor[E](d)
	if !ok {
		d.unregistered(reflect.TypeFor[E]())
		return
	}
	if event == nil {
		event = new(E)
	}
	n := ch.Trigger(event)
	d.observer.Posted(e.name, n)
}

// PostArgs 用 args 就地构造 E 并投递
//
// 构造规则见 Construct。E 未声明时不构造事件，只写诊断行并返回 nil；
// 参数不匹配时返回包装了 ErrInvalidArgs 的错误且不调用任何监听器。
//
//	courier.PostArgs[Event1](d, 1, 2, 3) // 等价于 courier.Post(d, &Event1{1, 2, 3})
func PostArgs[E any](d *Dispatcher, args ...any) error {
	ch, e, ok := channelFor[E](d)
	if !ok {
		d.unregistered(reflect.TypeFor[E]())
		return nil
	}
	event, err := Construct[E](args...)
	if err != nil {
		return err
	}
	n := ch.Trigger(event)
	d.observer.Posted(e.name, n)
	return nil
}

// ClearType 移除 E 的全部监听器，返回移除数量
func ClearType[E any](d *Dispatcher) int {
	ch, e, ok := channelFor[E](d)
	if !ok {
		return 0
	}
	n := ch.Clear()
	d.removed(e, n)
	return n
}

// Listeners 返回 E 当前的监听器数量
func Listeners[E any](d *Dispatcher) int {
	ch, _, ok := channelFor[E](d)
	if !ok {
		return 0
	}
	return ch.Len()
}

// Registered E 是否为已声明的事件类型
func Registered[E any](d *Dispatcher) bool {
	_, ok := d.channels[reflect.TypeFor[E]()]
	return ok
}
