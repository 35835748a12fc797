package xretry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/retrykit/pkg/resilience/xbackoff"
)

func TestGroup(t *testing.T) {
	newTestRetryer := func() *Retryer {
		return NewRetryer(
			WithBackOffFactory(func() xbackoff.BackOff {
				return xbackoff.NewFixedAttemptsBackOff(0, 3)
			}),
		)
	}

	t.Run("AllSucceed", func(t *testing.T) {
		g, _ := newTestRetryer().Group(context.Background())

		var total atomic.Int32
		for i := 0; i < 4; i++ {
			g.Go(func(context.Context) error {
				if total.Add(1)%2 == 0 {
					return nil
				}
				// 奇数次调用失败一次后由重试补偿
				return errors.New("transient")
			})
		}

		require.NoError(t, g.Wait())
	})

	t.Run("FailureCancelsGroup", func(t *testing.T) {
		g, gctx := newTestRetryer().Group(context.Background())

		permanent := errors.New("fatal")
		g.Go(func(context.Context) error {
			return NewPermanentError(permanent)
		})
		g.Go(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		})

		err := g.Wait()
		assert.ErrorIs(t, err, permanent)
		assert.Error(t, gctx.Err())
	})

	t.Run("SetLimit", func(t *testing.T) {
		g, _ := newTestRetryer().Group(context.Background())
		g.SetLimit(1)

		var running, maxRunning atomic.Int32
		for i := 0; i < 4; i++ {
			g.Go(func(context.Context) error {
				cur := running.Add(1)
				if cur > maxRunning.Load() {
					maxRunning.Store(cur)
				}
				defer running.Add(-1)
				return nil
			})
		}

		require.NoError(t, g.Wait())
		assert.LessOrEqual(t, maxRunning.Load(), int32(1))
	})

	t.Run("NilReceiverAndContext", func(t *testing.T) {
		var r *Retryer
		g, gctx := r.Group(nil) //nolint:staticcheck // 故意传入 nil ctx

		require.NotNil(t, g)
		require.NotNil(t, gctx)
		g.Go(func(context.Context) error { return nil })
		assert.NoError(t, g.Wait())
	})
}
