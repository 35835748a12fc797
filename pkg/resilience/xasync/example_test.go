package xasync_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/omeyang/retrykit/pkg/resilience/xasync"
	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
)

// ExampleRetry 演示异步重试的阻塞式用法。
func ExampleRetry() {
	attempts := 0
	op := xasync.Go(func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("service unavailable")
		}
		return "hello", nil
	})

	v, err := xasync.Retry[string](context.Background(), xbackoff.NewZeroBackOff(), op)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(v, attempts)
	// Output: hello 3
}

// ExampleSession_Poll 演示非阻塞轮询的驱动方式。
func ExampleSession_Poll() {
	op := xasync.Go(func() (int, error) {
		return 42, nil
	})

	s, err := xasync.NewSession[int](op, xbackoff.NewZeroBackOff())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for {
		res, done := s.Poll()
		if done {
			fmt.Println(res.Value, res.Err)
			return
		}
	}
	// Output: 42 <nil>
}
