package xretry_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

func ExampleRetry() {
	var attempts int
	err := xretry.Retry(context.Background(), xbackoff.NewZeroBackOff(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient error")
		}
		return nil
	})

	fmt.Println("error:", err)
	fmt.Println("attempts:", attempts)
	// Output:
	// error: <nil>
	// attempts: 3
}

func ExampleNewPermanentError() {
	var attempts int
	err := xretry.Retry(context.Background(), xbackoff.NewExponentialBackOff(), func() error {
		attempts++
		// 永久性错误需要显式构造，未包装的错误默认可重试
		return xretry.NewPermanentError(errors.New("invalid input"))
	})

	fmt.Println("error:", err)
	fmt.Println("attempts:", attempts)
	// Output:
	// error: invalid input
	// attempts: 1
}

func ExampleRetryNotify() {
	var attempts int
	notify := func(err error, next time.Duration) {
		fmt.Printf("attempt failed: %v, retrying in %v\n", err, next)
	}

	err := xretry.RetryNotify(context.Background(), xbackoff.NewConstantBackOff(0), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("connection refused")
		}
		return nil
	}, notify)

	fmt.Println("error:", err)
	// Output:
	// attempt failed: connection refused, retrying in 0s
	// error: <nil>
}

func ExampleNewRetryer() {
	r := xretry.NewRetryer(
		xretry.WithBackOffFactory(func() xbackoff.BackOff {
			return xbackoff.NewFixedAttemptsBackOff(0, 3)
		}),
	)

	var attempts int
	err := r.Do(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	fmt.Println("error:", err)
	fmt.Println("attempts:", attempts)
	// Output:
	// error: <nil>
	// attempts: 3
}

func ExampleDoWithResult() {
	r := xretry.NewRetryer()
	result, err := xretry.DoWithResult(context.Background(), r, func(_ context.Context) (string, error) {
		return "hello", nil
	})

	fmt.Println("result:", result)
	fmt.Println("error:", err)
	// Output:
	// result: hello
	// error: <nil>
}
