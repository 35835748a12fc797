// Package xbackoff 提供退避策略（BackOff）接口及其实现。
//
// # 设计理念
//
// xbackoff 采用有状态的策略对象模型：
//   - NextBackOff()：计算下次重试前的等待时间，返回 Stop 表示应当放弃
//   - Reset()：将策略恢复到初始状态
//
// 与按尝试次数计算延迟的无状态模型不同，有状态模型允许策略自行
// 维护增长曲线和总耗时预算，调用方只需在每次失败后询问下一个间隔。
//
// # 内置策略
//
//   - ZeroBackOff：零延迟，立即重试
//   - StopBackOff：永不重试
//   - ConstantBackOff：固定间隔
//   - FixedAttemptsBackOff：固定间隔 + 固定尝试次数
//   - ExponentialBackOff：带抖动的指数退避（推荐）
//
// # 指数退避
//
// ExponentialBackOff 的随机化间隔按以下公式计算：
//
//	randomized = currentInterval * (1 ± randomizationFactor 范围内的随机比例)
//
// currentInterval 在每次调用后乘以 multiplier 增长，达到 maxInterval 后
// 停止增长。注意 maxInterval 限制的是 currentInterval 本身，随机化后的
// 输出最多可超出 maxInterval 的 randomizationFactor 倍。
//
// 设置了 maxElapsedTime 时，自 Reset() 起的累计耗时超出预算后
// NextBackOff 返回 Stop。默认参数下 10 次调用的预期间隔序列
// （抖动前，单位秒）：0.5, 0.75, 1.125, 1.687, 2.53, 3.795, 5.692,
// 8.538, 12.807，第 10 次超出 15 分钟预算返回 Stop。
//
// # 使用方式
//
//	b := xbackoff.NewExponentialBackOff(
//	    xbackoff.WithInitialInterval(100*time.Millisecond),
//	    xbackoff.WithMaxInterval(10*time.Second),
//	)
//	for {
//	    if err := doSomething(); err == nil {
//	        break
//	    }
//	    next := b.NextBackOff()
//	    if next == xbackoff.Stop {
//	        break
//	    }
//	    time.Sleep(next)
//	}
//
// 时间来源通过 Clock 接口抽象，测试中可注入确定性时钟。
//
// # 性能
//
// 抖动随机数默认使用 crypto/rand 生成，确保安全随机性。
// 单次 NextBackOff 调用耗时约 50-100ns，对重试场景完全可接受。
// 如需确定性行为，可使用 WithRandomizationFactor(0)。
package xbackoff
