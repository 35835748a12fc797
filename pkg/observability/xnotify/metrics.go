package xnotify

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

// 指标名称常量
const (
	// metricNameRetriesTotal 重试总数计数器
	metricNameRetriesTotal = "xretry.retries.total"
	// metricNameBackoffDelay 退避延迟直方图
	metricNameBackoffDelay = "xretry.backoff.delay"
)

// Metrics 重试指标收集器
// 把每次重试事件记录为计数器与退避延迟直方图
type Metrics struct {
	meter        metric.Meter
	retriesTotal metric.Int64Counter
	backoffDelay metric.Float64Histogram
}

// NewMetrics 创建指标收集器
// 如果 meterProvider 为 nil，返回 nil（不收集指标）
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("xnotify",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	retriesTotal, err := meter.Int64Counter(
		metricNameRetriesTotal,
		metric.WithDescription("重试总数"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	backoffDelay, err := meter.Float64Histogram(
		metricNameBackoffDelay,
		metric.WithDescription("重试前的退避延迟"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0,
		),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		meter:        meter,
		retriesTotal: retriesTotal,
		backoffDelay: backoffDelay,
	}, nil
}

// Record 记录一次重试事件
// ctx: 上下文，用于传播追踪信息
// operation: 操作名称，作为指标维度
// next: 即将等待的退避延迟
func (m *Metrics) Record(ctx context.Context, operation string, next time.Duration) {
	if m == nil {
		return
	}

	// 使用 context.WithoutCancel 确保即使 ctx 被取消，指标仍能记录
	metricsCtx := context.WithoutCancel(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
	}

	m.retriesTotal.Add(metricsCtx, 1, metric.WithAttributes(attrs...))
	m.backoffDelay.Record(metricsCtx, next.Seconds(), metric.WithAttributes(attrs...))
}

// Notify 把收集器适配成重试通知回调
// operation 作为指标维度；m 为 nil 时返回的回调什么都不做
func (m *Metrics) Notify(ctx context.Context, operation string) xretry.Notify {
	if m == nil {
		return Noop()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return func(_ error, next time.Duration) {
		m.Record(ctx, operation, next)
	}
}
