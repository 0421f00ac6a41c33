// Package boxes 运行时类型分发演示
//
// 使用 dynamic.Registry：事件类型不预先声明，按动态类型匹配。
package boxes

import (
	"fmt"
	"io"

	"github.com/pparuzel/courier/dynamic"
)

// Box 箱子
type Box struct {
	Name string
}

// CollisionEvent 两个物体发生碰撞
type CollisionEvent[T1, T2 any] struct {
	First  T1
	Second T2
}

// BoxCollision 两个箱子碰撞
type BoxCollision = CollisionEvent[Box, Box]

// NoEvent 什么也没发生
type NoEvent struct{}

// Run 运行演示，返回被调用的回调总数
func Run(out io.Writer) int {
	r := dynamic.New()
	dynamic.Subscribe(r, func(e BoxCollision) {
		fmt.Fprintf(out, "Boom! Destroyed %s and %s\n", e.First.Name, e.Second.Name)
	})
	dynamic.Subscribe(r, func(NoEvent) {
		fmt.Fprintln(out, "No event happened")
	})

	invoked := dynamic.Send(r, BoxCollision{First: Box{"box1"}, Second: Box{"box2"}})
	invoked += dynamic.Send(r, NoEvent{})
	return invoked
}
