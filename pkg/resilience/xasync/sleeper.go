package xasync

import "time"

// Sleeper 调度基座能力：产生在指定时长后到期的通道。
// 抽象为接口使会话与具体的并发运行时解耦，测试中可注入手动触发的
// 虚拟调度器。
type Sleeper interface {
	// Sleep 返回在 d 之后收到信号的通道
	Sleep(d time.Duration) <-chan time.Time
}

// systemSleeper 基于 time.After 的默认实现
type systemSleeper struct{}

func (systemSleeper) Sleep(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// 确保实现了接口
var _ Sleeper = systemSleeper{}
