// Package xnotify 提供重试通知回调的常用实现。
//
// 重试循环通过 [xretry.Notify] 在每次退避前同步通知调用方，
// xnotify 把这个回调接到可观测性设施上：
//
//   - [Noop] 什么都不做的默认实现
//   - [Log] 基于 log/slog 的结构化日志记录
//   - [Metrics] 基于 OpenTelemetry 的指标记录
//   - [Chain] 把多个通知回调按序串起来
//
// 通知回调被同步调用，实现不应执行阻塞操作；需要异步处理时
// 由调用方自行派发。
package xnotify
