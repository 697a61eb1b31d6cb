package poll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/lbc-release/pkg/utils/poll"
)

func sequence(values ...bool) (poll.Condition, *int) {
	calls := 0
	return func(ctx context.Context) (bool, error) {
		v := values[calls]
		calls++
		return v, nil
	}, &calls
}

func TestUntil(t *testing.T) {
	ctx := context.Background()

	t.Run("returns after first satisfied check", func(t *testing.T) {
		cond, calls := sequence(false, false, true)

		attempts, err := poll.Until(ctx, cond, poll.WithInterval(time.Millisecond))
		gt.NoError(t, err)
		gt.Equal(t, attempts, 3)
		gt.Equal(t, *calls, 3)
	})

	t.Run("condition error aborts immediately", func(t *testing.T) {
		want := errors.New("request failed")
		calls := 0
		attempts, err := poll.Until(ctx, func(ctx context.Context) (bool, error) {
			calls++
			return false, want
		}, poll.WithInterval(time.Millisecond))

		gt.Error(t, err)
		gt.True(t, errors.Is(err, want))
		gt.Equal(t, attempts, 1)
		gt.Equal(t, calls, 1)
	})

	t.Run("max attempts bounds the wait", func(t *testing.T) {
		cond, calls := sequence(false, false, false, false)

		attempts, err := poll.Until(ctx, cond,
			poll.WithInterval(time.Millisecond),
			poll.WithMaxAttempts(2),
		)
		gt.True(t, errors.Is(err, poll.ErrMaxAttempts))
		gt.Equal(t, attempts, 2)
		gt.Equal(t, *calls, 2)
	})

	t.Run("timeout stops an endless wait", func(t *testing.T) {
		attempts, err := poll.Until(ctx, func(ctx context.Context) (bool, error) {
			return false, nil
		},
			poll.WithInterval(5*time.Millisecond),
			poll.WithTimeout(30*time.Millisecond),
		)
		gt.True(t, errors.Is(err, context.DeadlineExceeded))
		gt.Number(t, attempts).Less(10)
	})

	t.Run("cancelled context stops before the first check", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		calls := 0
		attempts, err := poll.Until(cctx, func(ctx context.Context) (bool, error) {
			calls++
			return true, nil
		}, poll.WithInterval(time.Hour))

		gt.True(t, errors.Is(err, context.Canceled))
		gt.Equal(t, attempts, 0)
		gt.Equal(t, calls, 0)
	})
}
