// Package courier 实现按类型路由的同步事件分发器
//
// 分发器在构造时声明一个封闭的事件类型集合，每个类型对应一个通道。
// 监听器按事件类型注册，投递事件时按注册顺序同步调用该类型的全部监听器。
//
// # 快速开始
//
//	type Event1 struct{ I, J, K int }
//	type Event2 struct{ Count int }
//
//	d, err := courier.New(courier.WithEvents(
//	    courier.TypeOf[Event1](),
//	    courier.TypeOf[Event2](),
//	))
//	if err != nil {
//	    return err
//	}
//
//	// 注册监听器，保存令牌以便之后移除
//	tok, _ := courier.Add(d, func(e *Event1) { fmt.Println(e.I + e.J + e.K) })
//
//	// 投递已构造的事件
//	courier.Post(d, &Event1{1, 2, 3})
//
//	// 就地构造并投递
//	courier.PostArgs[Event1](d, 1, 2, 3)
//
//	courier.Remove(d, tok)
//
// # 类型匹配
//
// 只按精确类型匹配。嵌入已声明类型的结构体、以已声明类型为底层类型的新类型
// 都视为未声明：投递时不调用任何监听器，并向诊断输出写一行以 "warning" 开头的记录。
// 订阅未声明的类型返回 ErrUnregisteredEvent。
//
// # 重入
//
// 监听器可以在回调中投递事件、注册或移除监听器：
//   - 回调中新增的监听器从下一次投递开始生效
//   - 回调中移除的监听器立即生效，本次投递中尚未调用的不再调用
//
// # 并发安全
//
// Dispatcher 不加锁。多个 goroutine 使用同一实例时，由调用方负责串行化，
// 例如将所有投递汇集到同一个事件循环 goroutine（见 internal/demo/ropegame）。
//
// # Fx 模块
//
//	app := fx.New(
//	    courier.Module(),
//	    courier.ProvideEvent[Event1](),
//	    fx.Invoke(func(d *courier.Dispatcher) { ... }),
//	)
//
// # 相关包
//
//   - pkg/channel：单一事件类型的监听器存储
//   - dynamic：开放事件集合的运行时类型分发
//   - pkg/metrics：Prometheus 观测
package courier
