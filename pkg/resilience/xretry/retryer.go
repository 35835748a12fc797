package xretry

import (
	"context"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
)

// BackOffFactory 创建退避策略实例。
// 每次重试会话独占一个策略实例，工厂保证并发调用 Do 时互不干扰。
type BackOffFactory func() xbackoff.BackOff

// Executor 重试执行器接口
//
// 设计决策: NewRetryer 返回 *Retryer 而非 Executor 接口，因为泛型函数
// DoWithResult 需要访问 *Retryer 的内部方法。调用方如需 mock 重试执行器，
// 可在自身代码中使用此接口作为函数参数类型。
type Executor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// 确保 *Retryer 实现 Executor 接口
var _ Executor = (*Retryer)(nil)

// Retryer 重试执行器
//
// Retryer 组合了退避策略工厂和通知回调，提供可复用的重试执行能力。
// Retryer 本身可安全地被并发使用：每次 Do 调用通过工厂创建独立的
// 策略实例和计时器。
type Retryer struct {
	newBackOff BackOffFactory
	notify     Notify
	newTimer   func() Timer
}

// RetryerOption 执行器配置选项
type RetryerOption func(*Retryer)

// WithBackOffFactory 设置退避策略工厂。
// 传入 nil 会被静默忽略（保持默认值）。
func WithBackOffFactory(f BackOffFactory) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.newBackOff = f
		}
	}
}

// WithNotify 设置通知回调。
// 传入 nil 会被静默忽略（与 WithBackOffFactory 保持一致）。
func WithNotify(n Notify) RetryerOption {
	return func(r *Retryer) {
		if n != nil {
			r.notify = n
		}
	}
}

// WithTimerFactory 设置计时器工厂，主要用于测试注入虚拟时间。
func WithTimerFactory(f func() Timer) RetryerOption {
	return func(r *Retryer) {
		if f != nil {
			r.newTimer = f
		}
	}
}

// NewRetryer 创建重试执行器
// 默认使用 xbackoff.NewExponentialBackOff 作为策略工厂
func NewRetryer(opts ...RetryerOption) *Retryer {
	r := &Retryer{
		newBackOff: func() xbackoff.BackOff { return xbackoff.NewExponentialBackOff() },
		newTimer:   func() Timer { return &defaultTimer{} },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do 执行带重试的操作。
// 如果接收者为 nil，返回 ErrNilRetryer。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil {
		return ErrNilRetryer
	}
	if ctx == nil {
		return ErrNilContext
	}
	if fn == nil {
		return ErrNilFunc
	}
	_, err := doRetry(ctx, r.newBackOff(), func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, r.notify, r.newTimer())
	return err
}

// DoWithResult 执行带重试的操作（有返回值）
//
// 这是泛型函数，必须作为包级函数使用。
// 如果 r 为 nil，返回零值和 ErrNilRetryer。
func DoWithResult[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if r == nil {
		return zero, ErrNilRetryer
	}
	if ctx == nil {
		return zero, ErrNilContext
	}
	if fn == nil {
		return zero, ErrNilFunc
	}
	return doRetry(ctx, r.newBackOff(), func() (T, error) {
		return fn(ctx)
	}, r.notify, r.newTimer())
}
