package xretry

import (
	"context"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
)

// Operation 被重试的操作。
// 必须可重复调用；返回 nil 表示成功，返回错误时按错误分类决定是否重试。
type Operation func() error

// OperationWithData 带返回值的被重试操作
type OperationWithData[T any] func() (T, error)

// Notify 通知回调，在每次临时性失败后、等待 next 之前被同步调用。
// 仅用于日志和指标等观测目的，不影响重试流程。
type Notify func(err error, next time.Duration)

// Retry 按退避策略重试操作，直到成功、遇到永久性错误或策略耗尽。
// 策略在使用前会被 Reset。
func Retry(ctx context.Context, b xbackoff.BackOff, op Operation) error {
	return RetryNotify(ctx, b, op, nil)
}

// RetryNotify 与 Retry 相同，并在每次临时性失败后调用 notify。
func RetryNotify(ctx context.Context, b xbackoff.BackOff, op Operation, notify Notify) error {
	if op == nil {
		return ErrNilFunc
	}
	_, err := doRetry(ctx, b, func() (struct{}, error) {
		return struct{}{}, op()
	}, notify, nil)
	return err
}

// RetryWithData 按退避策略重试带返回值的操作。
// 策略在使用前会被 Reset。
func RetryWithData[T any](ctx context.Context, b xbackoff.BackOff, op OperationWithData[T]) (T, error) {
	return RetryNotifyWithData(ctx, b, op, nil)
}

// RetryNotifyWithData 与 RetryWithData 相同，并在每次临时性失败后调用 notify。
func RetryNotifyWithData[T any](ctx context.Context, b xbackoff.BackOff, op OperationWithData[T], notify Notify) (T, error) {
	return doRetry(ctx, b, op, notify, nil)
}

// doRetry 同步重试循环。
//
// 每轮迭代：调用操作；成功则返回；永久性错误立即透出（不调用 notify）；
// 临时性错误先看错误自带的 RetryAfter，没有再询问策略；两者都给不出
// 延迟时视为耗尽，透出该临时性错误；否则调用 notify 并阻塞等待后重试。
func doRetry[T any](ctx context.Context, b xbackoff.BackOff, op OperationWithData[T], notify Notify, timer Timer) (T, error) {
	var zero T
	if ctx == nil {
		return zero, ErrNilContext
	}
	if op == nil {
		return zero, ErrNilFunc
	}
	if b == nil {
		b = xbackoff.NewExponentialBackOff()
	}
	if timer == nil {
		timer = &defaultTimer{}
	}
	defer timer.Stop()

	b.Reset()
	for {
		v, err := op()
		if err == nil {
			return v, nil
		}
		if IsPermanent(err) {
			return zero, err
		}

		next := RetryAfterOf(err)
		if next <= 0 {
			next = b.NextBackOff()
		}
		if next == xbackoff.Stop {
			// 策略耗尽：没能从这个错误中恢复，但要透出而不是吞掉
			return zero, err
		}

		if notify != nil {
			notify(err, next)
		}

		timer.Start(next)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-timer.C():
		}
	}
}
