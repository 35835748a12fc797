package xbackoff

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// 指数退避默认参数
const (
	// DefaultInitialInterval 默认初始间隔
	DefaultInitialInterval = 500 * time.Millisecond
	// DefaultRandomizationFactor 默认抖动因子（0.5 表示在间隔上下 50% 范围内随机）
	DefaultRandomizationFactor = 0.5
	// DefaultMultiplier 默认增长乘数（每次退避增长 50%）
	DefaultMultiplier = 1.5
	// DefaultMaxInterval 默认最大间隔
	DefaultMaxInterval = 60 * time.Second
	// DefaultMaxElapsedTime 默认总耗时预算
	DefaultMaxElapsedTime = 15 * time.Minute
)

// ExponentialBackOff 指数退避策略。
//
// 每次 NextBackOff 在 currentInterval 上下 randomizationFactor 比例的
// 范围内均匀抽取随机化间隔，然后将 currentInterval 乘以 multiplier，
// 达到 maxInterval 后不再增长。maxInterval 限制的是 currentInterval，
// 随机化后的输出最多可超出它 randomizationFactor 倍。
//
// maxElapsedTime > 0 时，自 Reset() 起累计耗时超出预算后返回 Stop；
// 为 0 表示不限制总耗时。
//
// 非并发安全，单次重试会话应独占一个实例。
type ExponentialBackOff struct {
	currentInterval     time.Duration
	initialInterval     time.Duration
	randomizationFactor float64
	multiplier          float64
	maxInterval         time.Duration
	maxElapsedTime      time.Duration
	startTime           time.Time
	clock               Clock
	random              func() float64
}

// ExponentialBackOffOption 指数退避配置选项
type ExponentialBackOffOption func(*ExponentialBackOff)

// WithInitialInterval 设置初始间隔。
// 设计决策: d <= 0 时静默忽略（保持默认值），与 WithMaxInterval/WithMultiplier
// 一致。WithRandomizationFactor 则采用 clamp 策略，因为抖动因子有明确的
// 有效区间 [0,1]。
func WithInitialInterval(d time.Duration) ExponentialBackOffOption {
	return func(b *ExponentialBackOff) {
		if d > 0 {
			b.initialInterval = d
		}
	}
}

// WithRandomizationFactor 设置抖动因子（0-1 之间）。
// 传入 0 表示无抖动（确定性间隔）。
func WithRandomizationFactor(f float64) ExponentialBackOffOption {
	return func(b *ExponentialBackOff) {
		if f < 0 {
			f = 0
		} else if f > 1 {
			f = 1
		}
		b.randomizationFactor = f
	}
}

// WithMultiplier 设置增长乘数（>= 1.0）。
// 传入 1.0 表示固定间隔（无指数增长），小于 1.0 的值会被忽略。
func WithMultiplier(m float64) ExponentialBackOffOption {
	return func(b *ExponentialBackOff) {
		if m >= 1 {
			b.multiplier = m
		}
	}
}

// WithMaxInterval 设置最大间隔
func WithMaxInterval(d time.Duration) ExponentialBackOffOption {
	return func(b *ExponentialBackOff) {
		if d > 0 {
			b.maxInterval = d
		}
	}
}

// WithMaxElapsedTime 设置总耗时预算。
// 传入 0 表示不限制总耗时，负值会被忽略。
func WithMaxElapsedTime(d time.Duration) ExponentialBackOffOption {
	return func(b *ExponentialBackOff) {
		if d >= 0 {
			b.maxElapsedTime = d
		}
	}
}

// WithClock 设置时钟，主要用于测试注入确定性时钟。
func WithClock(c Clock) ExponentialBackOffOption {
	return func(b *ExponentialBackOff) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithRandom 设置随机数来源（返回 [0,1) 内的值），主要用于测试。
// 默认使用 crypto/rand。
func WithRandom(f func() float64) ExponentialBackOffOption {
	return func(b *ExponentialBackOff) {
		if f != nil {
			b.random = f
		}
	}
}

// NewExponentialBackOff 创建指数退避策略。
// 默认值：
//   - initialInterval: 500ms
//   - randomizationFactor: 0.5 (±50%)
//   - multiplier: 1.5
//   - maxInterval: 60s
//   - maxElapsedTime: 15min
//
// 返回的实例已处于 Reset 后的状态，可直接使用。
func NewExponentialBackOff(opts ...ExponentialBackOffOption) *ExponentialBackOff {
	b := &ExponentialBackOff{
		initialInterval:     DefaultInitialInterval,
		randomizationFactor: DefaultRandomizationFactor,
		multiplier:          DefaultMultiplier,
		maxInterval:         DefaultMaxInterval,
		maxElapsedTime:      DefaultMaxElapsedTime,
		clock:               SystemClock{},
		random:              randomFloat64,
	}
	for _, opt := range opts {
		opt(b)
	}
	// 确保 maxInterval >= initialInterval
	if b.maxInterval < b.initialInterval {
		b.maxInterval = b.initialInterval
	}
	b.Reset()
	return b
}

// Reset 将 currentInterval 恢复到 initialInterval，
// 并从时钟重新采集 startTime（重新计算总耗时预算）。
func (b *ExponentialBackOff) Reset() {
	b.currentInterval = b.initialInterval
	b.startTime = b.clock.Now()
}

// NextBackOff 返回下次重试前的等待时间，返回 Stop 表示预算耗尽。
//
// 预算检查有两处：进入时检查已耗时是否超出预算，随机化间隔算出后再
// 检查已耗时加上该间隔是否会超出预算。两处都需要——调用之间已耗时
// 在增长，仅靠入口检查会放行一个本身就超出预算的等待。
func (b *ExponentialBackOff) NextBackOff() time.Duration {
	elapsed := b.GetElapsedTime()
	if b.maxElapsedTime > 0 && elapsed > b.maxElapsedTime {
		return Stop
	}

	next := randomizedInterval(b.randomizationFactor, b.random(), b.currentInterval)
	b.currentInterval = b.incrementCurrentInterval()

	if b.maxElapsedTime > 0 && elapsed+next > b.maxElapsedTime {
		return Stop
	}
	return next
}

// GetElapsedTime 返回自实例创建或上次 Reset 以来的累计耗时。
func (b *ExponentialBackOff) GetElapsedTime() time.Duration {
	return b.clock.Now().Sub(b.startTime)
}

// CurrentInterval 返回当前（抖动前）的重试间隔。
func (b *ExponentialBackOff) CurrentInterval() time.Duration {
	return b.currentInterval
}

// randomizedInterval 在 [current-delta, current+delta] 闭区间内均匀抽取
// 随机化间隔，delta = factor * current。
// 计算在纳秒精度的浮点数上进行，避免过早截断。
func randomizedInterval(factor, random float64, current time.Duration) time.Duration {
	currentNanos := float64(current)
	delta := factor * currentNanos
	minNanos := currentNanos - delta
	maxNanos := currentNanos + delta
	// +1 保证小量级下各整数纳秒桶的概率均匀：min=1、max=3 时
	// 1、2、3 各有 33% 的机会被选中。
	return time.Duration(minNanos + random*(maxNanos-minNanos+1))
}

// incrementCurrentInterval 计算增长后的 currentInterval。
// 先与 maxInterval/multiplier 比较再做乘法，在溢出发生前就钳制到上限。
func (b *ExponentialBackOff) incrementCurrentInterval() time.Duration {
	currentNanos := float64(b.currentInterval)
	maxNanos := float64(b.maxInterval)
	if currentNanos >= maxNanos/b.multiplier {
		return b.maxInterval
	}
	return time.Duration(currentNanos * b.multiplier)
}

const (
	floatBits  = 53
	floatScale = 1.0 / (1 << floatBits)
)

// randomFloat64 返回 [0,1) 内的随机数。
// crypto/rand 失败时返回 0，即抽取区间的下界（安全默认值）。
func randomFloat64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return float64(binary.LittleEndian.Uint64(buf[:])>>11) * floatScale
}
