package xpolicy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

// Format 定义策略文件格式。
type Format string

// 支持的文件格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Store 策略声明的持有者。
//
// 并发安全：Reload 替换整份声明，Policy 与 Factory 读到的总是
// 最近一次成功加载的快照。加载失败时保留上一份有效声明。
type Store struct {
	path    string
	format  Format
	isBytes bool

	mu     sync.RWMutex
	policy Policy
}

// New 从文件路径创建策略 Store。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。
func New(path string) (*Store, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	policy, err := parsePolicy(data, format)
	if err != nil {
		return nil, err
	}

	return &Store{
		path:   path,
		format: format,
		policy: policy,
	}, nil
}

// NewFromBytes 从字节数据创建策略 Store。
// 需要显式指定格式，适用于 K8s ConfigMap 等场景。
// 从字节创建的 Store 不支持 Reload 和监视。
func NewFromBytes(data []byte, format Format) (*Store, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	policy, err := parsePolicy(data, format)
	if err != nil {
		return nil, err
	}

	return &Store{
		format:  format,
		isBytes: true,
		policy:  policy,
	}, nil
}

// Policy 返回当前策略声明的快照。
func (s *Store) Policy() Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// Factory 返回基于当前声明构建策略实例的工厂。
//
// 设计决策: 工厂每次调用都读取最新快照后构建全新实例，
// 热更新后新一轮重试自动采用新参数，进行中的重试不受影响。
// 声明在加载时已通过校验，构建失败不应发生；万一发生时退化为
// 不重试的策略，避免让调用方拿到 nil。
func (s *Store) Factory() xretry.BackOffFactory {
	return func() xbackoff.BackOff {
		b, err := s.Policy().Build()
		if err != nil {
			return xbackoff.NewStopBackOff()
		}
		return b
	}
}

// Reload 重新加载策略文件。
// 仅对从文件创建的 Store 有效；加载或校验失败时保留原有声明。
func (s *Store) Reload() error {
	if s.isBytes {
		return fmt.Errorf("%w: cannot reload store created from bytes", ErrLoadFailed)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	policy, err := parsePolicy(data, s.format)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.policy = policy
	s.mu.Unlock()
	return nil
}

// Path 返回策略文件路径，从字节创建的 Store 返回空字符串。
func (s *Store) Path() string {
	return s.path
}

// Format 返回策略文件格式。
func (s *Store) Format() Format {
	return s.format
}

// detectFormat 根据文件扩展名检测格式
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

// isValidFormat 检查格式是否有效
func isValidFormat(format Format) bool {
	switch format {
	case FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

// parsePolicy 解析并校验一份策略声明
func parsePolicy(data []byte, format Format) (Policy, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return Policy{}, ErrUnsupportedFormat
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Policy{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	var policy Policy
	if err := k.Unmarshal("", &policy); err != nil {
		return Policy{}, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}

	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}
