package xretry

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group 并发地对多个操作执行重试。
//
// 基于 errgroup：任一操作最终失败（重试耗尽或永久性错误）会取消组内
// 上下文，Wait 返回第一个失败的错误。每个操作通过 Retryer 的策略工厂
// 获得独立的退避策略实例，互不干扰。
type Group struct {
	eg  *errgroup.Group
	ctx context.Context
	r   *Retryer
}

// Group 创建以 r 为执行器的并发重试组。
// 返回的上下文在任一操作最终失败或 Wait 返回后被取消。
// 如果接收者为 nil，使用默认配置的 Retryer。
func (r *Retryer) Group(ctx context.Context) (*Group, context.Context) {
	if r == nil {
		r = NewRetryer()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	eg, gctx := errgroup.WithContext(ctx)
	return &Group{eg: eg, ctx: gctx, r: r}, gctx
}

// SetLimit 限制组内同时运行的操作数量。
// 必须在第一次调用 Go 之前设置。
func (g *Group) SetLimit(n int) {
	g.eg.SetLimit(n)
}

// Go 启动一个带重试的操作。
// fn 为 nil 时该操作立即以 ErrNilFunc 失败。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		return g.r.Do(g.ctx, fn)
	})
}

// Wait 等待所有操作完成，返回第一个最终失败的错误。
func (g *Group) Wait() error {
	return g.eg.Wait()
}
