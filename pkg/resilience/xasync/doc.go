// Package xasync 提供非阻塞的重试状态机。
//
// # 设计理念
//
// 与 [xretry] 的同步循环不同，xasync 的会话（Session）不占用线程等待：
// 进展只在外部驱动（Poll 或 Wait）时发生。会话在两个状态间交替：
//
//   - 等待尝试：在途的是一次操作的结果通道
//   - 等待延迟：在途的是调度基座产生的到期通道
//
// 任一时刻恰好只有其中之一在途，二者从不同时被等待。这是不变式而非
// 优化——同时等待两者会让通知回调相对其所属的尝试乱序触发。
//
// # 操作与调度基座
//
// 操作是一个可重复调用的 func() <-chan Result[T]：每次调用启动一次
// 新的尝试，结果通过返回的通道送达（容量至少为 1，发送不应阻塞）。
// 延迟由 Sleeper 接口提供，默认基于 time.After；测试中可注入手动
// 触发的虚拟调度器。会话自身不创建 goroutine。
//
// # 驱动方式
//
// Poll 做非阻塞推进：有进展就一直推进到真正的挂起点，返回
// (结果, true) 或 (零值, false)。Wait 阻塞驱动到会话终结，
// 可被上下文取消。
//
//	s, err := xasync.NewSession(op, xbackoff.NewExponentialBackOff())
//	if err != nil {
//	    return err
//	}
//	v, err := s.Wait(ctx)
//
// # 取消语义
//
// 丢弃会话即取消：在途的尝试与延迟被放弃，不再有后续尝试和通知调用，
// 最后一次尝试已提交的副作用不做保证。通知回调总是被同步调用，不应
// 执行阻塞操作；需要异步通知时由调用方自行派发到独立的任务。
package xasync
