package poll

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultInterval is the wait between two checks
const DefaultInterval = 10 * time.Second

// ErrMaxAttempts is returned when the condition still does not hold after the
// configured number of checks
var ErrMaxAttempts = goerr.New("condition not satisfied within max attempts")

// Condition reports whether the awaited state has been reached. A returned
// error aborts the wait immediately.
type Condition func(ctx context.Context) (bool, error)

type config struct {
	interval    time.Duration
	maxAttempts int
	timeout     time.Duration
}

// Option is a functional option for Until
type Option func(*config)

// WithInterval sets the wait before every check
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		c.interval = d
	}
}

// WithMaxAttempts bounds the number of checks. Zero or negative means unbounded.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		c.maxAttempts = n
	}
}

// WithTimeout bounds the total waiting time. Zero or negative means unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// Until waits one interval, evaluates cond, and repeats until cond returns
// true. It returns the number of checks performed. Without max attempts or
// timeout the wait only ends on success, on a cond error or when ctx is done.
func Until(ctx context.Context, cond Condition, opts ...Option) (int, error) {
	cfg := &config{
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	timer := time.NewTimer(cfg.interval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return attempt - 1, goerr.Wrap(ctx.Err(), "waiting interrupted", goerr.V("attempts", attempt-1))
		case <-timer.C:
		}

		ok, err := cond(ctx)
		if err != nil {
			return attempt, err
		}
		if ok {
			return attempt, nil
		}

		if cfg.maxAttempts > 0 && attempt >= cfg.maxAttempts {
			return attempt, goerr.Wrap(ErrMaxAttempts, "gave up waiting", goerr.V("attempts", attempt))
		}
		timer.Reset(cfg.interval)
	}
}
