package xnotify

import (
	"log/slog"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

// Noop 返回什么都不做的通知回调。
func Noop() xretry.Notify {
	return func(error, time.Duration) {}
}

// Chain 把多个通知回调按序串成一个。
// nil 项被跳过；没有有效项时等价于 Noop。
func Chain(notifies ...xretry.Notify) xretry.Notify {
	valid := make([]xretry.Notify, 0, len(notifies))
	for _, n := range notifies {
		if n != nil {
			valid = append(valid, n)
		}
	}
	if len(valid) == 0 {
		return Noop()
	}

	return func(err error, next time.Duration) {
		for _, n := range valid {
			n(err, next)
		}
	}
}

// Log 返回把重试事件记录到结构化日志的通知回调。
// logger 为 nil 时使用 slog 默认 logger。
func Log(logger *slog.Logger) xretry.Notify {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, next time.Duration) {
		logger.Warn("operation failed, will retry",
			slog.Any("error", err),
			slog.Duration("next_backoff", next),
		)
	}
}
