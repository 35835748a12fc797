package xretry

import (
	"errors"
	"time"
)

// 参数校验相关错误。
var (
	// ErrNilRetryer 表示 Retryer 为 nil。
	ErrNilRetryer = errors.New("xretry: nil retryer")

	// ErrNilContext 表示上下文为 nil。
	ErrNilContext = errors.New("xretry: nil context")

	// ErrNilFunc 表示操作函数为 nil。
	ErrNilFunc = errors.New("xretry: nil operation func")
)

// RetryableError 可重试错误接口
// 实现此接口的错误会被自动识别为可重试或不可重试
type RetryableError interface {
	error
	Retryable() bool
}

// PermanentError 永久性错误（不应重试）。
// 重试循环遇到永久性错误会立即返回，不再尝试，也不调用通知回调。
type PermanentError struct {
	Err error
}

// NewPermanentError 创建永久性错误
func NewPermanentError(err error) *PermanentError {
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func (e *PermanentError) Retryable() bool {
	return false
}

// TransientError 临时性错误（应该重试）。
// RetryAfter > 0 时表示调用方指定的本次重试延迟，覆盖策略计算的间隔；
// 为 0 时由退避策略决定延迟。
type TransientError struct {
	Err        error
	RetryAfter time.Duration
}

// NewTransientError 创建临时性错误，重试延迟由退避策略决定
func NewTransientError(err error) *TransientError {
	return &TransientError{Err: err}
}

// NewRetryAfterError 创建带指定延迟的临时性错误。
// 适用于服务端明确给出等待时间的场景（如 HTTP 429 的 Retry-After）。
func NewRetryAfterError(err error, retryAfter time.Duration) *TransientError {
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &TransientError{Err: err, RetryAfter: retryAfter}
}

func (e *TransientError) Error() string {
	if e.Err == nil {
		return "transient error"
	}
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func (e *TransientError) Retryable() bool {
	return true
}

// IsRetryable 检查错误是否可重试
// 规则：
//   - nil 错误：不需要重试（视为成功）
//   - 实现 RetryableError 接口：根据 Retryable() 返回值判断
//   - 其他错误：默认视为可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}

	// 默认：未知错误视为可重试
	return true
}

// IsPermanent 检查错误是否为永久性错误
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	return !IsRetryable(err)
}

// RetryAfterOf 提取错误携带的指定延迟，没有时返回 0。
// 供重试循环在询问退避策略之前检查错误自带的延迟。
func RetryAfterOf(err error) time.Duration {
	var te *TransientError
	if errors.As(err, &te) {
		return te.RetryAfter
	}
	return 0
}
