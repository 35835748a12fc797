package xbackoff

import "time"

// Stop 表示策略已耗尽，不应再重试。
// NextBackOff 返回此值时调用方必须停止重试。
const Stop time.Duration = -1

// BackOff 定义退避策略接口。
// 策略是有状态的：NextBackOff 的连续调用沿策略自身的增长规律推进，
// Reset 将内部状态恢复到初始值。
//
// 实现无需保证并发安全，单次重试会话应独占一个策略实例。
type BackOff interface {
	// NextBackOff 返回下次重试前的等待时间。
	// 返回 Stop 表示策略耗尽，不应再重试。
	NextBackOff() time.Duration

	// Reset 将内部状态恢复到初始值
	Reset()
}

// ZeroBackOff 零延迟退避策略，立即重试。
type ZeroBackOff struct{}

// NewZeroBackOff 创建零延迟退避策略
func NewZeroBackOff() *ZeroBackOff {
	return &ZeroBackOff{}
}

func (b *ZeroBackOff) NextBackOff() time.Duration { return 0 }

func (b *ZeroBackOff) Reset() {}

// StopBackOff 永不重试的退避策略。
// NextBackOff 总是返回 Stop。
type StopBackOff struct{}

// NewStopBackOff 创建永不重试的退避策略
func NewStopBackOff() *StopBackOff {
	return &StopBackOff{}
}

func (b *StopBackOff) NextBackOff() time.Duration { return Stop }

func (b *StopBackOff) Reset() {}

// ConstantBackOff 固定间隔退避策略。
type ConstantBackOff struct {
	interval time.Duration
}

// NewConstantBackOff 创建固定间隔退避策略。
// interval 为负时视为 0。
func NewConstantBackOff(interval time.Duration) *ConstantBackOff {
	if interval < 0 {
		interval = 0
	}
	return &ConstantBackOff{interval: interval}
}

func (b *ConstantBackOff) NextBackOff() time.Duration { return b.interval }

func (b *ConstantBackOff) Reset() {}

// FixedAttemptsBackOff 固定间隔、固定尝试次数的退避策略。
// 前 maxAttempts-1 次 NextBackOff 返回固定间隔，之后返回 Stop。
// 即操作最多被执行 maxAttempts 次（包含首次尝试）。
type FixedAttemptsBackOff struct {
	interval       time.Duration
	maxAttempts    int
	currentAttempt int
}

// NewFixedAttemptsBackOff 创建固定次数退避策略。
// interval 为负时视为 0，maxAttempts 最小为 1（即不重试）。
func NewFixedAttemptsBackOff(interval time.Duration, maxAttempts int) *FixedAttemptsBackOff {
	if interval < 0 {
		interval = 0
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &FixedAttemptsBackOff{
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

func (b *FixedAttemptsBackOff) NextBackOff() time.Duration {
	if b.currentAttempt >= b.maxAttempts-1 {
		return Stop
	}
	b.currentAttempt++
	return b.interval
}

func (b *FixedAttemptsBackOff) Reset() {
	b.currentAttempt = 0
}

// 确保实现了接口
var (
	_ BackOff = (*ZeroBackOff)(nil)
	_ BackOff = (*StopBackOff)(nil)
	_ BackOff = (*ConstantBackOff)(nil)
	_ BackOff = (*FixedAttemptsBackOff)(nil)
	_ BackOff = (*ExponentialBackOff)(nil)
)
