package xpolicy

import (
	"fmt"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
)

// Kind 定义退避策略的种类。
type Kind string

// 支持的策略种类。
const (
	// KindExponential 指数退避，参数见 [xbackoff.ExponentialBackOff]。
	KindExponential Kind = "exponential"

	// KindConstant 常数间隔退避，使用 interval 参数。
	KindConstant Kind = "constant"

	// KindFixed 固定次数退避，使用 interval 和 max_attempts 参数。
	KindFixed Kind = "fixed"

	// KindZero 零间隔退避，立即重试。
	KindZero Kind = "zero"

	// KindStop 不重试。
	KindStop Kind = "stop"
)

// Policy 退避策略的声明式描述。
// 字段为零值时使用对应策略的默认参数。
type Policy struct {
	// Kind 策略种类，必填。
	Kind Kind `koanf:"kind"`

	// InitialInterval 指数退避的初始间隔。
	InitialInterval time.Duration `koanf:"initial_interval"`

	// RandomizationFactor 指数退避的随机化因子，范围 [0, 1]。
	RandomizationFactor float64 `koanf:"randomization_factor"`

	// Multiplier 指数退避的增长倍率，不小于 1。
	Multiplier float64 `koanf:"multiplier"`

	// MaxInterval 指数退避的单次间隔上限。
	MaxInterval time.Duration `koanf:"max_interval"`

	// MaxElapsedTime 指数退避的累计时间预算。
	// 0 表示使用默认预算，负值表示不设预算。
	MaxElapsedTime time.Duration `koanf:"max_elapsed_time"`

	// Interval 常数退避与固定次数退避的间隔。
	Interval time.Duration `koanf:"interval"`

	// MaxAttempts 固定次数退避的最大尝试次数。
	MaxAttempts int `koanf:"max_attempts"`
}

// Validate 检查策略声明是否合法。
func (p Policy) Validate() error {
	switch p.Kind {
	case KindExponential:
		if p.RandomizationFactor < 0 || p.RandomizationFactor > 1 {
			return fmt.Errorf("%w: randomization_factor %v out of [0, 1]",
				ErrInvalidPolicy, p.RandomizationFactor)
		}
		if p.Multiplier != 0 && p.Multiplier < 1 {
			return fmt.Errorf("%w: multiplier %v less than 1", ErrInvalidPolicy, p.Multiplier)
		}
	case KindConstant, KindZero, KindStop:
	case KindFixed:
		if p.MaxAttempts < 0 {
			return fmt.Errorf("%w: max_attempts %d negative", ErrInvalidPolicy, p.MaxAttempts)
		}
	case "":
		return fmt.Errorf("%w: kind is required", ErrUnknownKind)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
	return nil
}

// Build 按声明构建一个新的退避策略实例。
// 每次调用返回独立的实例，互不共享状态。
func (p Policy) Build() (xbackoff.BackOff, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch p.Kind {
	case KindExponential:
		return xbackoff.NewExponentialBackOff(p.exponentialOptions()...), nil
	case KindConstant:
		return xbackoff.NewConstantBackOff(p.Interval), nil
	case KindFixed:
		return xbackoff.NewFixedAttemptsBackOff(p.Interval, p.MaxAttempts), nil
	case KindZero:
		return xbackoff.NewZeroBackOff(), nil
	case KindStop:
		return xbackoff.NewStopBackOff(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, p.Kind)
	}
}

// exponentialOptions 把非零字段转成构建选项，零值字段由策略默认值接管
func (p Policy) exponentialOptions() []xbackoff.ExponentialBackOffOption {
	var opts []xbackoff.ExponentialBackOffOption
	if p.InitialInterval > 0 {
		opts = append(opts, xbackoff.WithInitialInterval(p.InitialInterval))
	}
	if p.RandomizationFactor > 0 {
		opts = append(opts, xbackoff.WithRandomizationFactor(p.RandomizationFactor))
	}
	if p.Multiplier > 0 {
		opts = append(opts, xbackoff.WithMultiplier(p.Multiplier))
	}
	if p.MaxInterval > 0 {
		opts = append(opts, xbackoff.WithMaxInterval(p.MaxInterval))
	}
	if p.MaxElapsedTime > 0 {
		opts = append(opts, xbackoff.WithMaxElapsedTime(p.MaxElapsedTime))
	} else if p.MaxElapsedTime < 0 {
		// 声明里的负值表示不设预算
		opts = append(opts, xbackoff.WithMaxElapsedTime(0))
	}
	return opts
}
