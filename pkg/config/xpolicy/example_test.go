package xpolicy_test

import (
	"fmt"
	"time"

	"github.com/omeyang/retrykit/pkg/config/xpolicy"
)

// ExampleNewFromBytes 演示从内存数据加载策略声明。
func ExampleNewFromBytes() {
	data := []byte(`
kind: exponential
initial_interval: 200ms
multiplier: 2.0
max_interval: 30s
`)

	store, err := xpolicy.NewFromBytes(data, xpolicy.FormatYAML)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	p := store.Policy()
	fmt.Println(p.Kind, p.InitialInterval, p.Multiplier)
	// Output: exponential 200ms 2
}

// ExamplePolicy_Build 演示直接从声明构建策略实例。
func ExamplePolicy_Build() {
	p := xpolicy.Policy{
		Kind:     xpolicy.KindConstant,
		Interval: 2 * time.Second,
	}

	b, err := p.Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(b.NextBackOff())
	// Output: 2s
}
