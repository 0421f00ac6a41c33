// Package collision 原子碰撞演示
//
// 两个原子碰撞产生爆炸；爆炸足够猛烈时整个世界被抹除。
// 演示在监听器中继续投递、成员方法监听器、未声明类型的诊断以及移除监听器。
package collision

import (
	"fmt"
	"io"
	"math"

	"github.com/pparuzel/courier"
	"github.com/pparuzel/courier/pkg/lib/log"
)

var logger = log.Logger("demo/collision")

// wipeoutThreshold 触发 WipeoutEvent 的爆炸力
const wipeoutThreshold = 10_000

// Vec2 二维坐标
type Vec2 struct {
	X, Y float32
}

// String 实现 fmt.Stringer
func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Atom 原子
type Atom struct {
	Position Vec2
	Radius   float32
}

// AtomCollision 两个原子发生碰撞
type AtomCollision struct {
	First, Second Atom
}

// ExplosionEvent 爆炸
type ExplosionEvent struct {
	BlastForce float32
	Position   Vec2
}

// WipeoutEvent 世界被抹除
type WipeoutEvent struct {
	DestructionRate float32
}

// World 世界
type World struct {
	DurabilityRate float32

	out io.Writer
}

// Wipeout 处理 WipeoutEvent
func (w *World) Wipeout(e *WipeoutEvent) {
	fmt.Fprintln(w.out, "The whole humanity is being wiped out due to a large blast")
	if e.DestructionRate > w.DurabilityRate {
		fmt.Fprintln(w.out, "Earth is destroyed as well")
	}
}

// Events 演示使用的事件类型
func Events() []courier.EventType {
	return []courier.EventType{
		courier.TypeOf[AtomCollision](),
		courier.TypeOf[ExplosionEvent](),
		courier.TypeOf[WipeoutEvent](),
	}
}

// Run 运行演示，输出写入 out
//
// opts 追加在默认选项之后，可用于设置诊断输出或观察者。
func Run(out io.Writer, opts ...courier.Option) error {
	d, err := courier.New(append([]courier.Option{
		courier.WithEvents(Events()...),
		courier.WithName("collision"),
	}, opts...)...)
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}

	world := &World{DurabilityRate: 1.5, out: out}

	courier.MustAdd(d, func(e *AtomCollision) {
		onAtomCollision(out, d, e)
	})
	courier.MustAdd(d, func(e *ExplosionEvent) {
		fmt.Fprintf(out, "Boom! Explosion at %v with %g newtons of force\n", e.Position, e.BlastForce)
	})
	wipeout, err := courier.AddMethod(d, world, (*World).Wipeout)
	if err != nil {
		return err
	}

	atom1 := Atom{Position: Vec2{130, 150}, Radius: 62.5}
	atom2 := Atom{Position: Vec2{120, 160}, Radius: 200}
	if err := courier.PostArgs[AtomCollision](d, atom1, atom2); err != nil {
		return err
	}

	// Vec2 不是事件类型，只产生一行诊断
	if err := courier.PostArgs[Vec2](d, 1, 2); err != nil {
		return err
	}

	courier.Remove(d, wipeout)
	logger.Debug("演示结束", "listeners", d.Size())
	return nil
}

// onAtomCollision 计算爆炸并继续投递
func onAtomCollision(out io.Writer, d *courier.Dispatcher, e *AtomCollision) {
	fmt.Fprintf(out, "Detected collision of atoms:\n\t first atom: %v\n\tsecond atom: %v\n",
		e.First.Position, e.Second.Position)

	a, b := e.First.Position, e.Second.Position
	force := float32(math.Pow(float64(e.First.Radius*e.Second.Radius), 2))
	position := Vec2{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
	courier.Post(d, &ExplosionEvent{BlastForce: force, Position: position})
	if force > wipeoutThreshold {
		courier.Post(d, &WipeoutEvent{DestructionRate: force / 1e8})
	}
}
