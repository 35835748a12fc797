package xstream

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xasync"
	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

// 参数校验相关错误。
var (
	// ErrNilSource 表示数据源为 nil。
	ErrNilSource = errors.New("xstream: nil source")

	// ErrNilContext 表示上下文为 nil。
	ErrNilContext = errors.New("xstream: nil context")
)

// Source 数据源能力：拉取下一个条目。
// ok 为 false 表示序列结束；条目与错误互斥，错误条目的 item 为零值。
type Source[T any] func() (item T, err error, ok bool)

// 流的内部状态
type state int

const (
	stateAwake      state = iota // 清醒：正常拉取数据源
	stateBackingOff              // 退避中：延迟到期前不触碰数据源
	stateGivenUp                 // 已放弃：终态
)

// Stream 带退避节奏的数据源包装。
//
// 非并发安全：Stream 独占数据源与退避策略的可变访问，
// 应由单个消费者串行驱动。
type Stream[T any] struct {
	source  Source[T]
	backoff xbackoff.BackOff
	notify  xretry.Notify
	sleeper xasync.Sleeper

	state state
	delay <-chan time.Time
}

// Option 配置 Stream 的可选项
type Option func(*options)

type options struct {
	notify  xretry.Notify
	sleeper xasync.Sleeper
}

// WithNotify 设置错误条目进入退避前同步调用的通知回调。
// 策略耗尽时不会触发通知。nil 值被忽略。
func WithNotify(notify xretry.Notify) Option {
	return func(o *options) {
		if notify != nil {
			o.notify = notify
		}
	}
}

// WithSleeper 设置延迟的调度基座，测试中可注入虚拟调度器。
// nil 值被忽略。
func WithSleeper(sleeper xasync.Sleeper) Option {
	return func(o *options) {
		if sleeper != nil {
			o.sleeper = sleeper
		}
	}
}

// New 创建带退避节奏的数据源包装。
//
// backoff 为 nil 时使用默认的指数退避策略。
// source 为 nil 时返回 [ErrNilSource]。
func New[T any](source Source[T], backoff xbackoff.BackOff, opts ...Option) (*Stream[T], error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if backoff == nil {
		backoff = xbackoff.NewExponentialBackOff()
	}

	o := options{sleeper: defaultSleeper{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	backoff.Reset()
	return &Stream[T]{
		source:  source,
		backoff: backoff,
		notify:  o.notify,
		sleeper: o.sleeper,
	}, nil
}

// Next 拉取下一个条目，必要时先等待退避延迟到期。
//
// 返回值语义与 [Source] 一致：ok 为 false 表示序列终结。
// 错误条目会原样传递，随后进入退避；策略耗尽时传递错误后终结。
// 等待延迟期间可被 ctx 取消，取消后返回 ctx 的错误且 ok 为 true，
// 流本身保持可用。
func (s *Stream[T]) Next(ctx context.Context) (T, error, bool) {
	var zero T
	if ctx == nil {
		return zero, ErrNilContext, true
	}

	switch s.state {
	case stateGivenUp:
		return zero, nil, false
	case stateBackingOff:
		select {
		case <-ctx.Done():
			return zero, ctx.Err(), true
		case <-s.delay:
			s.delay = nil
			s.state = stateAwake
		}
	}

	item, err, ok := s.source()
	if !ok {
		return zero, nil, false
	}
	if err == nil {
		s.backoff.Reset()
		return item, nil, true
	}

	next := xretry.RetryAfterOf(err)
	if next <= 0 {
		next = s.backoff.NextBackOff()
	}
	if next == xbackoff.Stop {
		s.state = stateGivenUp
		return zero, err, true
	}

	if s.notify != nil {
		s.notify(err, next)
	}
	s.delay = s.sleeper.Sleep(next)
	s.state = stateBackingOff
	return zero, err, true
}

// TryNext 非阻塞版本的 Next：退避延迟未到期时立即返回
// ready 为 false，不触碰数据源。
func (s *Stream[T]) TryNext() (item T, err error, ok bool, ready bool) {
	var zero T

	switch s.state {
	case stateGivenUp:
		return zero, nil, false, true
	case stateBackingOff:
		select {
		case <-s.delay:
			s.delay = nil
			s.state = stateAwake
		default:
			return zero, nil, false, false
		}
	}

	item, err, ok = s.Next(context.Background())
	return item, err, ok, true
}

// Seq 把流接入 for range 迭代。错误条目以 (零值, err) 的形式
// 产出；ctx 取消时以 (零值, ctx.Err()) 产出后结束迭代。
func (s *Stream[T]) Seq(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err, ok := s.Next(ctx)
			if !ok {
				return
			}
			if !yield(item, err) {
				return
			}
			if err != nil && ctx.Err() != nil {
				return
			}
		}
	}
}

// FromSeq 把 iter.Seq2 形式的序列接为数据源。
//
// 设计决策: 基于 iter.Pull2 做惰性拉取，返回的 stop 函数在流被
// 弃用时应由调用方执行以释放迭代器资源；序列自然结束时内部自动
// 释放。
func FromSeq[T any](seq iter.Seq2[T, error]) (Source[T], func()) {
	next, stop := iter.Pull2(seq)
	return func() (T, error, bool) {
		item, err, ok := next()
		if !ok {
			stop()
			var zero T
			return zero, nil, false
		}
		return item, err, true
	}, stop
}

// WithBackOff 把退避节奏直接应用到 iter.Seq2 形式的序列上。
//
// 返回的序列转发源序列的条目：成功条目重置策略，错误条目透出后
// 按策略延迟暂停拉取，策略耗尽后序列终结。等价于 FromSeq、New、
// Seq 的组合，迭代提前终止时自动释放源迭代器。
// seq 为 nil 时返回空序列。
func WithBackOff[T any](ctx context.Context, seq iter.Seq2[T, error], backoff xbackoff.BackOff, opts ...Option) iter.Seq2[T, error] {
	if seq == nil {
		return func(func(T, error) bool) {}
	}
	return func(yield func(T, error) bool) {
		source, stop := FromSeq(seq)
		defer stop()

		st, err := New(source, backoff, opts...)
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		st.Seq(ctx)(yield)
	}
}

// defaultSleeper 基于 time.After 的默认调度基座
type defaultSleeper struct{}

func (defaultSleeper) Sleep(d time.Duration) <-chan time.Time {
	return time.After(d)
}

var _ xasync.Sleeper = defaultSleeper{}
