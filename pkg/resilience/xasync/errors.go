package xasync

import "errors"

// 参数校验相关错误。
var (
	// ErrNilOperation 表示操作函数为 nil。
	ErrNilOperation = errors.New("xasync: nil operation")

	// ErrNilContext 表示上下文为 nil。
	ErrNilContext = errors.New("xasync: nil context")
)
