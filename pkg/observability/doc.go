// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xnotify: 重试通知回调的日志与指标实现
//
// 设计原则：
//   - 遵循 OpenTelemetry 语义规范
//   - 通知回调同步执行，不引入额外的调度开销
package observability
