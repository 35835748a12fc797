package xasync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
	"github.com/omeyang/retrykit/pkg/resilience/xretry"
)

// manualSleeper 手动触发的虚拟调度器
type manualSleeper struct {
	requests []time.Duration
	pending  []chan time.Time
}

func newManualSleeper() *manualSleeper {
	return &manualSleeper{}
}

func (s *manualSleeper) Sleep(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	s.requests = append(s.requests, d)
	s.pending = append(s.pending, ch)
	return ch
}

// Fire 触发最早的未到期延迟
func (s *manualSleeper) Fire(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, s.pending, "no pending sleep to fire")
	ch := s.pending[0]
	s.pending = s.pending[1:]
	ch <- time.Time{}
}

// scriptedOp 按预置脚本逐次返回结果的操作
type scriptedOp[T any] struct {
	t       *testing.T
	results []Result[T]
	calls   int
}

func newScriptedOp[T any](t *testing.T, results ...Result[T]) *scriptedOp[T] {
	t.Helper()
	return &scriptedOp[T]{t: t, results: results}
}

func (o *scriptedOp[T]) Op() <-chan Result[T] {
	ch := make(chan Result[T], 1)
	require.Less(o.t, o.calls, len(o.results), "operation invoked more times than scripted")
	ch <- o.results[o.calls]
	o.calls++
	return ch
}

func TestSessionPoll(t *testing.T) {
	t.Run("ImmediateSuccess", func(t *testing.T) {
		op := newScriptedOp(t, Result[int]{Value: 42})
		s, err := NewSession[int](op.Op, xbackoff.NewZeroBackOff())
		require.NoError(t, err)

		res, done := s.Poll()
		require.True(t, done)
		assert.NoError(t, res.Err)
		assert.Equal(t, 42, res.Value)
		assert.Equal(t, 1, op.calls)
	})

	t.Run("FailOnceThenSucceed", func(t *testing.T) {
		// 虚拟调度器推进前结果不可达；推进后得到成功结果
		sleeper := newManualSleeper()
		op := newScriptedOp(t,
			Result[string]{Err: errors.New("transient")},
			Result[string]{Value: "ok"},
		)
		s, err := NewSession[string](op.Op,
			xbackoff.NewConstantBackOff(time.Second),
			WithSleeper(sleeper),
		)
		require.NoError(t, err)

		// 第一次失败被消化，进入等待延迟状态
		_, done := s.Poll()
		assert.False(t, done)
		assert.Equal(t, []time.Duration{time.Second}, sleeper.requests)

		// 延迟未到期：仍然未就绪，且不会发起新的尝试
		_, done = s.Poll()
		assert.False(t, done)
		assert.Equal(t, 1, op.calls)

		sleeper.Fire(t)

		res, done := s.Poll()
		require.True(t, done)
		assert.NoError(t, res.Err)
		assert.Equal(t, "ok", res.Value)
		assert.Equal(t, 2, op.calls)
	})

	t.Run("PermanentTerminates", func(t *testing.T) {
		inner := errors.New("fatal")
		op := newScriptedOp(t, Result[int]{Err: xretry.NewPermanentError(inner)})
		s, err := NewSession[int](op.Op, xbackoff.NewZeroBackOff())
		require.NoError(t, err)

		res, done := s.Poll()
		require.True(t, done)
		assert.ErrorIs(t, res.Err, inner)
		assert.Equal(t, 1, op.calls)
	})

	t.Run("ExhaustionTerminates", func(t *testing.T) {
		notified := 0
		inner := errors.New("flaky")
		op := newScriptedOp(t, Result[int]{Err: inner})
		s, err := NewSession[int](op.Op,
			xbackoff.NewStopBackOff(),
			WithNotify(func(error, time.Duration) { notified++ }),
		)
		require.NoError(t, err)

		res, done := s.Poll()
		require.True(t, done)
		assert.ErrorIs(t, res.Err, inner)
		assert.True(t, xretry.IsRetryable(res.Err))
		assert.Equal(t, 0, notified)
	})

	t.Run("TerminalIsIdempotent", func(t *testing.T) {
		op := newScriptedOp(t, Result[int]{Value: 7})
		s, err := NewSession[int](op.Op, xbackoff.NewZeroBackOff())
		require.NoError(t, err)

		first, done := s.Poll()
		require.True(t, done)
		second, done := s.Poll()
		require.True(t, done)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, op.calls)
	})

	t.Run("RetryAfterOverridesPolicy", func(t *testing.T) {
		sleeper := newManualSleeper()
		op := newScriptedOp(t,
			Result[int]{Err: xretry.NewRetryAfterError(errors.New("rate limited"), 9*time.Second)},
			Result[int]{Value: 1},
		)
		s, err := NewSession[int](op.Op,
			xbackoff.NewConstantBackOff(time.Millisecond),
			WithSleeper(sleeper),
		)
		require.NoError(t, err)

		_, done := s.Poll()
		assert.False(t, done)
		assert.Equal(t, []time.Duration{9 * time.Second}, sleeper.requests)
	})

	t.Run("NotifyBeforeDelay", func(t *testing.T) {
		sleeper := newManualSleeper()
		var notified []time.Duration
		op := newScriptedOp(t,
			Result[int]{Err: errors.New("e1")},
			Result[int]{Err: errors.New("e2")},
			Result[int]{Value: 3},
		)
		s, err := NewSession[int](op.Op,
			xbackoff.NewConstantBackOff(2*time.Second),
			WithSleeper(sleeper),
			WithNotify(func(_ error, next time.Duration) {
				notified = append(notified, next)
			}),
		)
		require.NoError(t, err)

		_, done := s.Poll()
		assert.False(t, done)
		sleeper.Fire(t)
		_, done = s.Poll()
		assert.False(t, done)
		sleeper.Fire(t)

		res, done := s.Poll()
		require.True(t, done)
		assert.Equal(t, 3, res.Value)
		assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, notified)
	})

	t.Run("NilOperation", func(t *testing.T) {
		_, err := NewSession[int](nil, xbackoff.NewZeroBackOff())
		assert.ErrorIs(t, err, ErrNilOperation)
	})
}

func TestSessionWait(t *testing.T) {
	t.Run("DrivesToCompletion", func(t *testing.T) {
		op := newScriptedOp(t,
			Result[int]{Err: errors.New("transient")},
			Result[int]{Err: errors.New("transient")},
			Result[int]{Value: 99},
		)
		s, err := NewSession[int](op.Op, xbackoff.NewZeroBackOff())
		require.NoError(t, err)

		v, err := s.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 99, v)
		assert.Equal(t, 3, op.calls)
	})

	t.Run("ContextCanceledDuringDelay", func(t *testing.T) {
		sleeper := newManualSleeper()
		op := newScriptedOp(t, Result[int]{Err: errors.New("transient")})
		s, err := NewSession[int](op.Op,
			xbackoff.NewConstantBackOff(time.Hour),
			WithSleeper(sleeper),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = s.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		// 取消后不再发起新的尝试
		assert.Equal(t, 1, op.calls)
	})

	t.Run("NilContext", func(t *testing.T) {
		op := newScriptedOp(t, Result[int]{Value: 1})
		s, err := NewSession[int](op.Op, xbackoff.NewZeroBackOff())
		require.NoError(t, err)

		_, err = s.Wait(nil) //nolint:staticcheck // 故意传入 nil ctx
		assert.ErrorIs(t, err, ErrNilContext)
	})
}

func TestRetry(t *testing.T) {
	op := newScriptedOp(t,
		Result[string]{Err: errors.New("transient")},
		Result[string]{Value: "done"},
	)

	v, err := Retry[string](context.Background(), xbackoff.NewZeroBackOff(), op.Op)
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestGo(t *testing.T) {
	calls := 0
	op := Go(func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 5, nil
	})

	v, err := Retry[int](context.Background(), xbackoff.NewZeroBackOff(), op)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 2, calls)
}
