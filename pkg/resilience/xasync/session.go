package xasync

import (
	"context"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

// Result 一次尝试的结果
type Result[T any] struct {
	Value T
	Err   error
}

// Operation 异步操作。
// 每次调用启动一次新的尝试，结果通过返回的通道送达。
// 通道容量应至少为 1，使发送方不因会话尚未轮询而阻塞。
type Operation[T any] func() <-chan Result[T]

// Session 非阻塞重试会话。
//
// 会话独占策略实例与操作，在"等待尝试"和"等待延迟"两个状态间交替，
// 任一时刻恰好只有一个在途通道被等待。会话终结于成功、永久性错误
// 或策略耗尽；终态是幂等的，之后的 Poll/Wait 返回同一结果。
//
// 非并发安全：Poll 和 Wait 必须由同一个 goroutine 驱动。
type Session[T any] struct {
	op      Operation[T]
	backoff xbackoff.BackOff
	notify  xretry.Notify
	sleeper Sleeper

	// attempt 与 delay 互斥：恰好一个非 nil，除非已终结
	attempt <-chan Result[T]
	delay   <-chan time.Time

	done   bool
	result Result[T]
}

// SessionOption 会话配置选项
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	notify  xretry.Notify
	sleeper Sleeper
}

// WithNotify 设置通知回调，在每次临时性失败后、延迟开始前被同步调用。
func WithNotify(n xretry.Notify) SessionOption {
	return func(c *sessionConfig) {
		if n != nil {
			c.notify = n
		}
	}
}

// WithSleeper 设置调度基座，主要用于测试注入虚拟时间。
func WithSleeper(s Sleeper) SessionOption {
	return func(c *sessionConfig) {
		if s != nil {
			c.sleeper = s
		}
	}
}

// NewSession 创建重试会话并立即发起第一次尝试。
// 策略在使用前会被 Reset；backoff 为 nil 时使用默认的指数退避。
func NewSession[T any](op Operation[T], backoff xbackoff.BackOff, opts ...SessionOption) (*Session[T], error) {
	if op == nil {
		return nil, ErrNilOperation
	}
	if backoff == nil {
		backoff = xbackoff.NewExponentialBackOff()
	}

	cfg := &sessionConfig{sleeper: systemSleeper{}}
	for _, opt := range opts {
		opt(cfg)
	}

	backoff.Reset()
	return &Session[T]{
		op:      op,
		backoff: backoff,
		notify:  cfg.notify,
		sleeper: cfg.sleeper,
		attempt: op(),
	}, nil
}

// Poll 非阻塞地推进会话。
// 返回 (结果, true) 表示会话已终结；(零值, false) 表示到达了真正的
// 挂起点（在途的尝试或延迟尚未完成）。终结后幂等，可重复调用。
func (s *Session[T]) Poll() (Result[T], bool) {
	for {
		if s.done {
			return s.result, true
		}

		if s.delay != nil {
			select {
			case <-s.delay:
				// 延迟结束，发起下一次尝试
				s.delay = nil
				s.attempt = s.op()
			default:
				return Result[T]{}, false
			}
			continue
		}

		select {
		case res := <-s.attempt:
			s.observe(res)
			// 有进展就继续推进，不虚假地报告未就绪
		default:
			return Result[T]{}, false
		}
	}
}

// Wait 阻塞驱动会话直到终结或上下文取消。
// 取消时返回 ctx.Err()，不再有后续尝试。
func (s *Session[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if ctx == nil {
		return zero, ErrNilContext
	}

	for {
		if s.done {
			return s.result.Value, s.result.Err
		}

		if s.delay != nil {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-s.delay:
				s.delay = nil
				s.attempt = s.op()
			}
			continue
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case res := <-s.attempt:
			s.observe(res)
		}
	}
}

// observe 处理一次尝试的结果，完成状态转移。
//
// 成功与永久性错误直接终结会话；临时性错误先看错误自带的 RetryAfter，
// 没有再询问策略，两者都给不出延迟时以该临时性错误终结；否则调用
// 通知回调并进入等待延迟状态。下一次尝试在延迟结束时才发起，保证
// 尝试与延迟从不同时在途。
func (s *Session[T]) observe(res Result[T]) {
	s.attempt = nil

	if res.Err == nil || xretry.IsPermanent(res.Err) {
		s.finish(res)
		return
	}

	next := xretry.RetryAfterOf(res.Err)
	if next <= 0 {
		next = s.backoff.NextBackOff()
	}
	if next == xbackoff.Stop {
		s.finish(res)
		return
	}

	if s.notify != nil {
		s.notify(res.Err, next)
	}
	s.delay = s.sleeper.Sleep(next)
}

func (s *Session[T]) finish(res Result[T]) {
	s.done = true
	s.result = res
	s.delay = nil
}

// Retry 创建会话并阻塞驱动到终结的便捷函数。
// 策略在使用前会被 Reset。
func Retry[T any](ctx context.Context, backoff xbackoff.BackOff, op Operation[T], opts ...SessionOption) (T, error) {
	var zero T
	s, err := NewSession(op, backoff, opts...)
	if err != nil {
		return zero, err
	}
	return s.Wait(ctx)
}

// Go 将一个普通的阻塞操作包装为异步操作。
// 每次调用在新的 goroutine 中执行 fn，结果通过容量为 1 的通道送达。
// 注意被放弃的会话不会中断已在执行的 fn，其结果写入缓冲通道后被丢弃。
func Go[T any](fn func() (T, error)) Operation[T] {
	return func() <-chan Result[T] {
		ch := make(chan Result[T], 1)
		go func() {
			v, err := fn()
			ch <- Result[T]{Value: v, Err: err}
		}()
		return ch
	}
}
