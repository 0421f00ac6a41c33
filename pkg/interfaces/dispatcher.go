// Package interfaces 定义 courier 公共接口
//
// 本文件定义 Dispatcher 与 Observer 接口。
package interfaces

// Dispatcher 定义事件分发器中与事件类型无关的部分
//
// 按类型路由的操作（Add/Remove/Post）是泛型函数，
// 无法出现在接口中，见根包 courier。
type Dispatcher interface {
	// ID 返回分发器实例标识
	ID() string

	// EventTypes 按声明顺序返回已声明的事件类型名称
	EventTypes() []string

	// Size 返回全部通道的监听器总数
	Size() int

	// Empty 监听器总数是否为 0
	Empty() bool

	// Clear 移除全部监听器，返回移除数量
	Clear() int
}

// Observer 观察分发器的簿记变化
//
// Observer 的回调在调用分发器的同一 goroutine 上同步执行，
// 实现应当足够轻量，不得回调分发器。
type Observer interface {
	// ListenerAdded 某事件类型新增一个监听器
	ListenerAdded(eventType string)

	// ListenersRemoved 某事件类型移除了 n 个监听器（n > 0）
	ListenersRemoved(eventType string, n int)

	// Posted 某事件类型的一次投递调用了 delivered 个监听器
	Posted(eventType string, delivered int)

	// Unregistered 投递了未声明的事件类型
	Unregistered(eventType string)
}

// NopObserver 不做任何事的 Observer
type NopObserver struct{}

func (NopObserver) ListenerAdded(string)         {}
func (NopObserver) ListenersRemoved(string, int) {}
func (NopObserver) Posted(string, int)           {}
func (NopObserver) Unregistered(string)          {}
