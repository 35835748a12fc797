// Package xretry 提供同步重试循环和错误分类。
//
// # 设计理念
//
// xretry 只负责重试编排，不关心被重试操作的具体内容：
//   - 操作是一个可重复调用的 func() error（或带返回值的泛型变体）
//   - 退避策略由 [xbackoff.BackOff] 提供
//   - 错误分类决定失败后是立即放弃还是再次尝试
//
// # 错误分类
//
// 错误分为两类：
//   - NewPermanentError(err)：永久性错误，立即返回，不再重试
//   - NewTransientError(err)：临时性错误，按退避策略重试
//   - NewRetryAfterError(err, d)：临时性错误，且本次重试延迟由 d 指定
//     （覆盖策略计算的间隔，适用于服务端指定等待时间的限流响应）
//
// 未经包装的普通错误默认视为临时性错误。这个默认值偏向对未知失败
// 进行重试，代价是未显式标记的永久性失败会被重试到策略耗尽为止。
//
// # 使用方式
//
// 方式一：包级函数（推荐用于简单场景）
//
//	err := xretry.Retry(ctx, xbackoff.NewExponentialBackOff(), func() error {
//	    return doSomething()
//	})
//
// 方式二：使用 Retryer（推荐用于需要复用配置的场景）
//
//	r := xretry.NewRetryer(
//	    xretry.WithBackOffFactory(func() xbackoff.BackOff {
//	        return xbackoff.NewFixedAttemptsBackOff(time.Second, 3)
//	    }),
//	)
//	err := r.Do(ctx, func(ctx context.Context) error {
//	    return doSomething()
//	})
//
// # 终止条件
//
// 重试循环因以下之一结束：
//   - 操作成功：返回 nil
//   - 永久性错误：立即返回该错误，不调用通知回调
//   - 策略耗尽：返回最后一次的临时性错误。调用方可通过 IsPermanent
//     区分"重试后放弃"与"被告知不要重试"
//   - 上下文取消：返回 ctx.Err()
//
// 引擎从不吞掉错误：错误要么交给通知回调，要么透出给调用方，或两者兼有。
package xretry
