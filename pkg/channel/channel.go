// Package channel 实现单一事件类型的监听器存储
//
// Channel[E] 按注册顺序保存 E 类型事件的全部监听器，支持：
//   - Add：注册监听器，返回唯一令牌
//   - Remove：按令牌移除监听器（未知令牌为空操作）
//   - Trigger：按注册顺序同步调用全部监听器
//   - Clear：移除全部监听器
//
// # 重入语义
//
// Trigger 在入口处对监听器序列取快照并遍历快照：
//   - 触发期间新增的监听器不会在本次触发中被调用
//   - 触发期间被移除（或清空）的监听器从移除时刻起不再被调用
//
// # 并发安全
//
// Channel 不是并发安全的，调用方负责串行化访问。
package channel

import "sync/atomic"

// tokenSeq 全局令牌序列
//
// 所有 Channel 共享同一序列，令牌永不复用，
// 因此其他 Channel 签发的令牌在本 Channel 上一定不匹配。
var tokenSeq atomic.Uint64

// Listener E 类型事件的监听器
//
// 监听器收到的是投递方持有的事件指针，对事件的修改对投递方可见。
type Listener[E any] func(event *E)

// Token 监听器令牌
//
// 令牌由 Add 签发，用于之后的 Remove。零值令牌不标识任何监听器。
type Token[E any] struct {
	id uint64
}

// Valid 令牌是否由 Add 签发
func (t Token[E]) Valid() bool {
	return t.id != 0
}

// ID 返回令牌的数值标识（仅用于日志和调试）
func (t Token[E]) ID() uint64 {
	return t.id
}

// slot 监听器槽位
type slot[E any] struct {
	id      uint64
	fn      Listener[E]
	removed bool
}

// Channel E 类型事件的监听器序列
type Channel[E any] struct {
	slots []*slot[E]
	// depth 正在进行的 Trigger 层数
	depth int
}

// New 创建空的 Channel
func New[E any]() *Channel[E] {
	return &Channel[E]{}
}

// Add 注册监听器
//
// 监听器追加到序列末尾。fn 为 nil 时不注册，返回零值令牌。
func (c *Channel[E]) Add(fn Listener[E]) Token[E] {
	if fn == nil {
		return Token[E]{}
	}
	s := &slot[E]{id: tokenSeq.Add(1), fn: fn}
	c.slots = append(c.slots, s)
	return Token[E]{id: s.id}
}

// Remove 移除令牌对应的监听器，返回移除数量（0 或 1）
//
// 剩余监听器保持原有顺序。没有 Trigger 进行时原地移除；
// 否则复制序列，正在进行的 Trigger 快照不受影响。
func (c *Channel[E]) Remove(tok Token[E]) int {
	if !tok.Valid() {
		return 0
	}
	for i, s := range c.slots {
		if s.id != tok.id {
			continue
		}
		s.removed = true
		if c.depth == 0 {
			last := len(c.slots) - 1
			copy(c.slots[i:], c.slots[i+1:])
			c.slots[last] = nil
			c.slots = c.slots[:last]
			return 1
		}
		next := make([]*slot[E], 0, len(c.slots)-1)
		next = append(next, c.slots[:i]...)
		next = append(next, c.slots[i+1:]...)
		c.slots = next
		return 1
	}
	return 0
}

// Trigger 按注册顺序调用全部监听器，返回被调用的监听器数量
func (c *Channel[E]) Trigger(event *E) int {
	c.depth++
	defer func() { c.depth-- }()

	snapshot := c.slots
	invoked := 0
	for _, s := range snapshot {
		if s.removed {
			continue
		}
		s.fn(event)
		invoked++
	}
	return invoked
}

// Clear 移除全部监听器，返回移除数量
func (c *Channel[E]) Clear() int {
	n := len(c.slots)
	for _, s := range c.slots {
		s.removed = true
	}
	c.slots = nil
	return n
}

// Len 返回当前监听器数量
func (c *Channel[E]) Len() int {
	return len(c.slots)
}
