package xretry

import "time"

// Timer 抽象重试之间的等待能力，主要用于测试注入虚拟时间。
// 实现无需并发安全，单次重试会话独占一个实例。
type Timer interface {
	// Start 启动一次 d 时长的计时
	Start(d time.Duration)

	// C 返回计时到期时收到信号的通道
	C() <-chan time.Time

	// Stop 停止计时并释放资源
	Stop()
}

// defaultTimer 基于 time.Timer 的默认实现
type defaultTimer struct {
	timer *time.Timer
}

func (t *defaultTimer) Start(d time.Duration) {
	if t.timer == nil {
		t.timer = time.NewTimer(d)
		return
	}
	t.timer.Reset(d)
}

func (t *defaultTimer) C() <-chan time.Time {
	return t.timer.C
}

func (t *defaultTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

// 确保实现了接口
var _ Timer = (*defaultTimer)(nil)
