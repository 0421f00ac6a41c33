package courier_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pparuzel/courier"
	"github.com/pparuzel/courier/pkg/channel"
	pkgif "github.com/pparuzel/courier/pkg/interfaces"
)

type Event1 struct {
	I, J, K int
}

type Event2 struct {
	TriggerCount uint64
}

type Event3 struct {
	TriggerCount uint64
}

// Event4 嵌入 Event2，但不是 Event2
type Event4 struct {
	Event2
}

// newDispatcher 创建声明了 Event1、Event2 的分发器，诊断写入返回的缓冲区
func newDispatcher(t *testing.T) (*courier.Dispatcher, *bytes.Buffer) {
	t.Helper()
	var diag bytes.Buffer
	d, err := courier.New(
		courier.WithEvents(courier.TypeOf[Event1](), courier.TypeOf[Event2]()),
		courier.WithDiagnostics(&diag),
	)
	require.NoError(t, err)
	return d, &diag
}

// ============================================================================
// 接口契约测试
// ============================================================================

// TestDispatcher_ImplementsInterface 验证 Dispatcher 实现接口
func TestDispatcher_ImplementsInterface(t *testing.T) {
	var _ pkgif.Dispatcher = (*courier.Dispatcher)(nil)
}

// ============================================================================
// 构造测试
// ============================================================================

// TestNew_NoEventTypes 测试未声明事件类型
func TestNew_NoEventTypes(t *testing.T) {
	d, err := courier.New()
	assert.ErrorIs(t, err, courier.ErrNoEventTypes)
	assert.Nil(t, d)

	_, err = courier.New(courier.WithEvents())
	assert.ErrorIs(t, err, courier.ErrNoEventTypes)

	assert.Panics(t, func() { courier.MustNew() })
}

// TestNew_DuplicateEventType 测试重复声明
func TestNew_DuplicateEventType(t *testing.T) {
	_, err := courier.New(courier.WithEvents(
		courier.TypeOf[Event1](),
		courier.TypeOf[Event2](),
		courier.TypeOf[Event1](),
	))
	assert.ErrorIs(t, err, courier.ErrDuplicateEventType)
}

// TestNew_ZeroEventType 测试零值 EventType
func TestNew_ZeroEventType(t *testing.T) {
	_, err := courier.New(courier.WithEvents(courier.EventType{}))
	assert.ErrorIs(t, err, courier.ErrInvalidEventType)
}

// TestNew_Metadata 测试实例信息
func TestNew_Metadata(t *testing.T) {
	d, err := courier.New(
		courier.WithEvents(courier.TypeOf[Event2](), courier.TypeOf[Event1]()),
		courier.WithName("game"),
		courier.WithoutDiagnostics(),
	)
	require.NoError(t, err)

	assert.Equal(t, "game", d.Name())
	assert.NotEmpty(t, d.ID())
	assert.Equal(t, []string{"courier_test.Event2", "courier_test.Event1"}, d.EventTypes())
	assert.True(t, d.Empty())
	assert.True(t, courier.Registered[Event1](d))
	assert.False(t, courier.Registered[Event3](d))

	other := courier.MustNew(courier.WithEvents(courier.TypeOf[Event1]()))
	assert.NotEqual(t, d.ID(), other.ID())
}

// ============================================================================
// 订阅与投递测试
// ============================================================================

// TestScenario_CounterAcrossTypes 测试计数场景
func TestScenario_CounterAcrossTypes(t *testing.T) {
	d, diag := newDispatcher(t)

	counter := 0
	_, err := courier.Add(d, func(*Event1) { counter++ })
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		courier.Post(d, &Event1{})
	}
	assert.Equal(t, 3, counter)

	courier.Post(d, &Event2{})
	assert.Equal(t, 3, counter)
	assert.Empty(t, diag.String())

	courier.Post(d, &Event3{})
	assert.Equal(t, 3, counter)
	assert.True(t, strings.HasPrefix(diag.String(), "warning"), diag.String())
	assert.Contains(t, diag.String(), "courier_test.Event3")
	assert.Equal(t, 1, strings.Count(diag.String(), "\n"), "exactly one diagnostic line")
}

// TestPost_RegularFunction 测试普通函数作为监听器，事件按引用传递
func TestPost_RegularFunction(t *testing.T) {
	var diag bytes.Buffer
	d := courier.MustNew(
		courier.WithEvents(courier.TypeOf[Event4]()),
		courier.WithDiagnostics(&diag),
	)
	courier.MustAdd(d, func(e *Event4) { e.TriggerCount++ })

	event := &Event4{}
	event.TriggerCount = 1

	courier.Post(d, event)
	assert.Equal(t, uint64(2), event.TriggerCount)
	courier.Post(d, event)
	assert.Equal(t, uint64(3), event.TriggerCount)

	// 嵌入的基础类型不是已声明的类型
	courier.Post(d, &event.Event2)
	assert.Equal(t, uint64(3), event.TriggerCount)
	assert.True(t, strings.HasPrefix(diag.String(), "warning"))

	diag.Reset()
	courier.Post(d, &Event3{TriggerCount: event.TriggerCount})
	assert.Equal(t, uint64(3), event.TriggerCount)
	assert.True(t, strings.HasPrefix(diag.String(), "warning"))
}

// TestPost_EmbeddingIsNotMatching 测试嵌入类型不匹配任何已声明类型
func TestPost_EmbeddingIsNotMatching(t *testing.T) {
	d, diag := newDispatcher(t)

	var triggered [2]bool
	courier.MustAdd(d, func(*Event1) { triggered[0] = true })
	courier.MustAdd(d, func(*Event2) { triggered[1] = true })

	courier.Post(d, &Event4{})
	assert.Equal(t, [2]bool{}, triggered)
	assert.True(t, strings.HasPrefix(diag.String(), "warning"))
}

// TestPost_NamedRedefinitionIsNotMatching 测试以已声明类型为底层类型的新类型
func TestPost_NamedRedefinitionIsNotMatching(t *testing.T) {
	type Renamed Event1
	d, diag := newDispatcher(t)

	called := false
	courier.MustAdd(d, func(*Event1) { called = true })

	courier.Post(d, &Renamed{})
	assert.False(t, called)
	assert.True(t, strings.HasPrefix(diag.String(), "warning"))
}

// TestPost_BothEvents 测试两个事件类型互不干扰
func TestPost_BothEvents(t *testing.T) {
	d, _ := newDispatcher(t)

	var triggered [2]bool
	courier.MustAdd(d, func(*Event1) { triggered[0] = true })
	courier.MustAdd(d, func(*Event2) { triggered[1] = true })

	courier.Post(d, &Event2{})
	assert.Equal(t, [2]bool{false, true}, triggered)

	courier.Post(d, &Event1{})
	assert.Equal(t, [2]bool{true, true}, triggered)
}

// TestPost_NilEvent 测试 nil 事件投递零值
func TestPost_NilEvent(t *testing.T) {
	d, _ := newDispatcher(t)

	var got *Event1
	courier.MustAdd(d, func(e *Event1) { got = e })

	courier.Post[Event1](d, nil)
	require.NotNil(t, got)
	assert.Equal(t, Event1{}, *got)
}

// TestPost_Order 测试按注册顺序调用
func TestPost_Order(t *testing.T) {
	d, _ := newDispatcher(t)

	var order []string
	courier.MustAdd(d, func(*Event1) { order = append(order, "L1") })
	courier.MustAdd(d, func(*Event1) { order = append(order, "L2") })
	courier.MustAdd(d, func(*Event1) { order = append(order, "L3") })

	courier.Post(d, &Event1{})
	courier.Post(d, &Event1{})
	assert.Equal(t, []string{"L1", "L2", "L3", "L1", "L2", "L3"}, order)
}

// TestPost_StatefulClosure 测试有状态闭包
func TestPost_StatefulClosure(t *testing.T) {
	d, _ := newDispatcher(t)

	value := 4.0
	multiplier := 2.0
	courier.MustAdd(d, func(e *Event1) {
		multiplier *= 2
		value += float64(e.I * 1000)
		value += float64(e.J * 100)
		value += float64(e.K * 10)
		value *= multiplier
	})
	assert.Equal(t, 4.0, value)

	require.NoError(t, courier.PostArgs[Event1](d, 1, 2, 3))
	assert.Equal(t, 1234.0*4, value)
}

// TestAdd_Unregistered 测试订阅未声明类型
func TestAdd_Unregistered(t *testing.T) {
	d, _ := newDispatcher(t)

	tok, err := courier.Add(d, func(*Event3) {})
	assert.ErrorIs(t, err, courier.ErrUnregisteredEvent)
	assert.False(t, tok.Valid())
	assert.Equal(t, 0, d.Size())

	assert.Panics(t, func() { courier.MustAdd(d, func(*Event4) {}) })
}

// TestAdd_NilListener 测试 nil 监听器
func TestAdd_NilListener(t *testing.T) {
	d, _ := newDispatcher(t)

	_, err := courier.Add[Event1](d, nil)
	assert.ErrorIs(t, err, courier.ErrNilListener)
	assert.Equal(t, 0, d.Size())
}

// ============================================================================
// 成员函数绑定测试
// ============================================================================

type world struct {
	durability float64
	wipeouts   int
}

func (w *world) onEvent2(e *Event2) {
	w.wipeouts++
	e.TriggerCount++
}

// TestAddMethod 测试成员函数绑定
func TestAddMethod(t *testing.T) {
	d, _ := newDispatcher(t)

	w := &world{durability: 1.5}
	tok, err := courier.AddMethod(d, w, (*world).onEvent2)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Size())

	ev := &Event2{}
	courier.Post(d, ev)
	assert.Equal(t, 1, w.wipeouts)
	assert.Equal(t, uint64(1), ev.TriggerCount)

	// 绑定的是引用：对象后续的变化对监听器可见
	w.wipeouts = 10
	courier.Post(d, ev)
	assert.Equal(t, 11, w.wipeouts)

	assert.Equal(t, 1, courier.Remove(d, tok))
	courier.Post(d, ev)
	assert.Equal(t, 11, w.wipeouts)
}

// TestAddMethod_Invalid 测试无效绑定
func TestAddMethod_Invalid(t *testing.T) {
	d, _ := newDispatcher(t)

	_, err := courier.AddMethod[Event2, world](d, nil, (*world).onEvent2)
	assert.ErrorIs(t, err, courier.ErrNilObject)

	_, err = courier.AddMethod[Event2](d, &world{}, nil)
	assert.ErrorIs(t, err, courier.ErrNilListener)

	_, err = courier.AddMethod(d, &world{}, func(*world, *Event3) {})
	assert.ErrorIs(t, err, courier.ErrUnregisteredEvent)
	assert.Equal(t, 0, d.Size())
}

// ============================================================================
// 移除测试
// ============================================================================

// TestRemove 测试移除与重复移除
func TestRemove(t *testing.T) {
	d, _ := newDispatcher(t)

	triggered := false
	tok := courier.MustAdd(d, func(*Event1) { triggered = true })
	require.NoError(t, courier.PostArgs[Event1](d, 0, 0))
	assert.True(t, triggered)

	triggered = false
	assert.Equal(t, 1, courier.Remove(d, tok))
	require.NoError(t, courier.PostArgs[Event1](d, 0, 0))
	assert.False(t, triggered)
	assert.Equal(t, 0, d.Size())

	assert.Equal(t, 0, courier.Remove(d, tok))
	assert.Equal(t, 0, d.Size(), "size must not go below zero")
}

// TestRemove_ForeignToken 测试其他分发器的令牌
func TestRemove_ForeignToken(t *testing.T) {
	a, _ := newDispatcher(t)
	b, _ := newDispatcher(t)

	courier.MustAdd(a, func(*Event1) {})
	foreign := courier.MustAdd(b, func(*Event1) {})

	assert.Equal(t, 0, courier.Remove(a, foreign))
	assert.Equal(t, 1, a.Size())
	assert.Equal(t, 1, b.Size())
}

// TestRemove_KeepsOthers 测试移除不影响其他监听器
func TestRemove_KeepsOthers(t *testing.T) {
	d, _ := newDispatcher(t)

	var order []int
	courier.MustAdd(d, func(*Event1) { order = append(order, 1) })
	mid := courier.MustAdd(d, func(*Event1) { order = append(order, 2) })
	courier.MustAdd(d, func(*Event1) { order = append(order, 3) })

	courier.Remove(d, mid)
	courier.Post(d, &Event1{})
	assert.Equal(t, []int{1, 3}, order)
	assert.Equal(t, 2, courier.Listeners[Event1](d))
}

// ============================================================================
// 簿记测试
// ============================================================================

// TestSize_Bookkeeping 测试监听器总数
func TestSize_Bookkeeping(t *testing.T) {
	d, _ := newDispatcher(t)

	const event1Count = 10000
	const event2Count = 10001
	for i := 0; i < event1Count; i++ {
		courier.MustAdd(d, func(*Event1) {})
		courier.MustAdd(d, func(*Event2) {})
	}
	courier.MustAdd(d, func(*Event2) {})
	require.Equal(t, event1Count+event2Count, d.Size())

	for i := 0; i < 100; i++ {
		require.NoError(t, courier.PostArgs[Event1](d, i, i+1, i+2))
		require.NoError(t, courier.PostArgs[Event2](d, i+3))
	}
	assert.Equal(t, event1Count+event2Count, d.Size())
	assert.Equal(t, d.Size(), courier.Listeners[Event1](d)+courier.Listeners[Event2](d))

	assert.Equal(t, event1Count, courier.ClearType[Event1](d))
	assert.Equal(t, event2Count, d.Size())
	assert.Equal(t, 0, courier.ClearType[Event1](d))
	assert.Equal(t, 0, courier.ClearType[Event3](d))

	assert.Equal(t, event2Count, d.Clear())
	assert.Equal(t, 0, d.Size())
	assert.True(t, d.Empty())
}

// TestClear_Idempotent 测试重复清空
func TestClear_Idempotent(t *testing.T) {
	d, _ := newDispatcher(t)
	assert.Equal(t, 0, d.Clear())
	assert.Equal(t, 0, d.Size())

	courier.MustAdd(d, func(*Event1) {})
	assert.Equal(t, 1, d.Clear())
	assert.Equal(t, 0, d.Clear())
	assert.True(t, d.Empty())
}

// ============================================================================
// 重入测试
// ============================================================================

// TestReentrant_PostFromListener 测试监听器中投递其他事件
func TestReentrant_PostFromListener(t *testing.T) {
	d, _ := newDispatcher(t)

	var trace []string
	courier.MustAdd(d, func(e *Event1) {
		trace = append(trace, "event1")
		courier.Post(d, &Event2{TriggerCount: uint64(e.I)})
	})
	courier.MustAdd(d, func(e *Event2) {
		trace = append(trace, "event2")
	})
	courier.MustAdd(d, func(*Event1) {
		trace = append(trace, "event1-second")
	})

	courier.Post(d, &Event1{I: 1})
	assert.Equal(t, []string{"event1", "event2", "event1-second"}, trace)
}

// TestReentrant_MutateDuringPost 测试监听器中增删监听器
func TestReentrant_MutateDuringPost(t *testing.T) {
	d, _ := newDispatcher(t)

	var trace []int
	var victim channel.Token[Event1]

	courier.MustAdd(d, func(*Event1) {
		trace = append(trace, 1)
		courier.Remove(d, victim)
		courier.MustAdd(d, func(*Event1) { trace = append(trace, 99) })
	})
	courier.MustAdd(d, func(*Event1) { trace = append(trace, 2) })
	victim = courier.MustAdd(d, func(*Event1) { trace = append(trace, 3) })
	courier.MustAdd(d, func(*Event1) { trace = append(trace, 4) })

	courier.Post(d, &Event1{})
	assert.Equal(t, []int{1, 2, 4}, trace)
	assert.Equal(t, 4, d.Size())
	assert.Equal(t, d.Size(), courier.Listeners[Event1](d))

	trace = nil
	courier.Post(d, &Event1{})
	assert.Equal(t, []int{1, 2, 4, 99}, trace)
}

// TestReentrant_ClearDuringPost 测试监听器中清空
func TestReentrant_ClearDuringPost(t *testing.T) {
	d, _ := newDispatcher(t)

	calls := 0
	courier.MustAdd(d, func(*Event1) {
		calls++
		d.Clear()
	})
	courier.MustAdd(d, func(*Event1) { calls++ })
	courier.MustAdd(d, func(*Event2) { calls++ })

	courier.Post(d, &Event1{})
	assert.Equal(t, 1, calls)
	assert.True(t, d.Empty())
}
