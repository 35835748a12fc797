package xpolicy

import "errors"

// 策略配置加载和构建相关错误。
var (
	// ErrEmptyPath 表示策略文件路径为空。
	ErrEmptyPath = errors.New("xpolicy: empty policy path")

	// ErrUnsupportedFormat 表示不支持的文件格式。
	ErrUnsupportedFormat = errors.New("xpolicy: unsupported policy format")

	// ErrLoadFailed 表示策略文件加载失败。
	ErrLoadFailed = errors.New("xpolicy: failed to load policy")

	// ErrParseFailed 表示策略文件解析失败。
	ErrParseFailed = errors.New("xpolicy: failed to parse policy")

	// ErrUnmarshalFailed 表示策略声明反序列化失败。
	ErrUnmarshalFailed = errors.New("xpolicy: failed to unmarshal policy")

	// ErrUnknownKind 表示未知的策略种类。
	ErrUnknownKind = errors.New("xpolicy: unknown policy kind")

	// ErrInvalidPolicy 表示策略参数非法。
	ErrInvalidPolicy = errors.New("xpolicy: invalid policy")
)
