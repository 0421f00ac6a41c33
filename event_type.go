package courier

import (
	"reflect"

	"github.com/pparuzel/courier/pkg/channel"
)

// channelHandle 与事件类型无关的通道操作
type channelHandle interface {
	Clear() int
	Len() int
}

// EventType 事件类型描述
//
// 通过 TypeOf 创建，记录类型标识并负责为该类型创建通道。
type EventType struct {
	typ        reflect.Type
	newChannel func() channelHandle
}

// TypeOf 返回 E 的事件类型描述
//
// 匹配按精确类型进行：嵌入 E 的结构体、以 E 为底层类型的新类型
// 都是不同的事件类型。
func TypeOf[E any]() EventType {
	return EventType{
		typ: reflect.TypeFor[E](),
		newChannel: func() channelHandle {
			return channel.New[E]()
		},
	}
}

// Name 返回类型名称（包名限定）
func (t EventType) Name() string {
	if t.typ == nil {
		return ""
	}
	return t.typ.String()
}

// Type 返回反射类型
func (t EventType) Type() reflect.Type {
	return t.typ
}

// IsZero 是否为零值
func (t EventType) IsZero() bool {
	return t.typ == nil || t.newChannel == nil
}

// String 实现 fmt.Stringer
func (t EventType) String() string {
	return t.Name()
}
