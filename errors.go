package courier

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 构造错误（配置错误，不可恢复）
	// ────────────────────────────────────────────────────────────────────────

	// ErrNoEventTypes 未声明任何事件类型
	ErrNoEventTypes = errors.New("courier: dispatcher requires at least one event type")

	// ErrDuplicateEventType 同一事件类型被声明多次
	ErrDuplicateEventType = errors.New("courier: duplicate event type")

	// ErrInvalidEventType 零值 EventType（未通过 TypeOf 创建）
	ErrInvalidEventType = errors.New("courier: invalid event type")

	// ────────────────────────────────────────────────────────────────────────
	// 注册错误（编程错误）
	// ────────────────────────────────────────────────────────────────────────

	// ErrUnregisteredEvent 订阅未声明的事件类型
	ErrUnregisteredEvent = errors.New("courier: cannot subscribe to an unregistered event")

	// ErrNilListener 监听器为 nil
	ErrNilListener = errors.New("courier: listener is nil")

	// ErrNilObject 成员函数绑定的对象为 nil
	ErrNilObject = errors.New("courier: object is nil")

	// ────────────────────────────────────────────────────────────────────────
	// 投递错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidArgs 构造参数与事件类型不匹配
	ErrInvalidArgs = errors.New("courier: invalid constructor arguments")
)
