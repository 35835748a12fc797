package xbackoff

import "time"

// Clock 提供当前时间。
// 抽象为接口以便测试中注入确定性时钟。
type Clock interface {
	// Now 返回当前时刻
	Now() time.Time
}

// SystemClock 使用系统时钟，生产环境应使用此实现。
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// 确保实现了接口
var _ Clock = SystemClock{}
