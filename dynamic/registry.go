// Package dynamic 实现开放事件集合的运行时类型分发
//
// 与根包 courier 不同，Registry 不预先声明事件类型：
// 任意类型都可以订阅，投递时按事件的动态类型精确匹配。
//
//   - 订阅记录保存在单一的有序序列中（不按类型分区）
//   - 投递时线性扫描全部订阅，调用类型标签相同的回调
//   - 类型标签是首次出现时分配的小整数，比较不涉及字符串
//
// 订阅一个从不投递的类型不是错误，它只是永远不会被匹配。
//
// # 重入与并发
//
// 与 pkg/channel 相同：投递遍历入口处的快照，回调中新增的订阅从下一次投递开始生效，
// 回调中取消的订阅立即生效。Registry 不是并发安全的。
package dynamic

import (
	"reflect"
	"sync/atomic"

	"github.com/pparuzel/courier/pkg/lib/log"
)

var logger = log.Logger("courier/dynamic")

// tokenSeq 全局令牌序列，令牌永不复用
var tokenSeq atomic.Uint64

// Event 事件
//
// 任意值都可以作为事件投递；匹配使用其动态类型，E 与 *E 是不同的类型。
type Event = any

// Token 订阅令牌，零值不标识任何订阅
type Token uint64

// Valid 令牌是否由 Subscribe 签发
func (t Token) Valid() bool {
	return t != 0
}

// tag 运行时类型标签
type tag uint32

// callback 订阅记录
type callback struct {
	tag     tag
	token   Token
	fn      func(Event)
	removed bool
}

// Registry 运行时类型分发注册表
type Registry struct {
	tags      map[reflect.Type]tag
	callbacks []*callback
	// depth 正在进行的 Send 层数
	depth int
}

// New 创建空的注册表
func New() *Registry {
	return &Registry{
		tags: make(map[reflect.Type]tag),
	}
}

// tagOf 返回类型标签，首次出现时分配
func (r *Registry) tagOf(typ reflect.Type) tag {
	if t, ok := r.tags[typ]; ok {
		return t
	}
	t := tag(len(r.tags) + 1)
	r.tags[typ] = t
	logger.Debug("分配类型标签", "type", typ.String(), "tag", t)
	return t
}

// Subscribe 为动态类型 E 注册回调，fn 为 nil 时返回零值令牌
func Subscribe[E any](r *Registry, fn func(E)) Token {
	if fn == nil {
		return 0
	}
	cb := &callback{
		tag:   r.tagOf(reflect.TypeFor[E]()),
		token: Token(tokenSeq.Add(1)),
		fn:    func(ev Event) { fn(ev.(E)) },
	}
	r.callbacks = append(r.callbacks, cb)
	return cb.token
}

// Send 将 ev 交给所有动态类型与之相同的回调，返回被调用的回调数量
//
// ev 为 nil 或其类型从未订阅过时不调用任何回调。
func Send(r *Registry, ev Event) int {
	if ev == nil {
		return 0
	}
	t, ok := r.tags[reflect.TypeOf(ev)]
	if !ok {
		return 0
	}
	r.depth++
	defer func() { r.depth-- }()

	snapshot := r.callbacks
	invoked := 0
	for _, cb := range snapshot {
		if cb.removed || cb.tag != t {
			continue
		}
		cb.fn(ev)
		invoked++
	}
	return invoked
}

// Unsubscribe 取消订阅，返回取消数量（0 或 1）
//
// 没有 Send 进行时原地移除，否则复制序列以保持快照不变。
func (r *Registry) Unsubscribe(tok Token) int {
	if !tok.Valid() {
		return 0
	}
	for i, cb := range r.callbacks {
		if cb.token != tok {
			continue
		}
		cb.removed = true
		if r.depth == 0 {
			last := len(r.callbacks) - 1
			copy(r.callbacks[i:], r.callbacks[i+1:])
			r.callbacks[last] = nil
			r.callbacks = r.callbacks[:last]
			return 1
		}
		next := make([]*callback, 0, len(r.callbacks)-1)
		next = append(next, r.callbacks[:i]...)
		next = append(next, r.callbacks[i+1:]...)
		r.callbacks = next
		return 1
	}
	return 0
}

// Clear 取消全部订阅，返回取消数量
//
// 已分配的类型标签保留。
func (r *Registry) Clear() int {
	n := len(r.callbacks)
	for _, cb := range r.callbacks {
		cb.removed = true
	}
	r.callbacks = nil
	return n
}

// Len 返回当前订阅数量
func (r *Registry) Len() int {
	return len(r.callbacks)
}
