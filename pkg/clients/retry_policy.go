package clients

import (
	"context"
	"time"

	"github.com/ajitpratap0/recordsync/pkg/errors"
)

// Sleeper waits between retry attempts. Tests inject a recording
// implementation so the retry bound is verified without real time.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// timerSleeper blocks on a real timer, honoring context cancellation.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy defines retry behavior for provider calls.
//
// The delay is flat, not exponential: the providers enforce a fixed
// rate-limit window, so waiting longer than the window buys nothing and
// waiting less re-trips the limit.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	IsRetryable func(error) bool
	Sleeper     Sleeper
}

// NewRetryPolicy creates a fixed-delay retry policy. Retryability
// defaults to the error taxonomy's rate-limit/transport classes.
func NewRetryPolicy(maxAttempts int, delay time.Duration) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		Delay:       delay,
		IsRetryable: errors.IsRetryable,
		Sleeper:     timerSleeper{},
	}
}

// Execute runs fn up to MaxAttempts times, sleeping Delay between
// attempts. Non-retryable errors return immediately. After the final
// attempt the last error is returned unchanged so callers keep the
// original cause.
func (rp *RetryPolicy) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= rp.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if rp.IsRetryable != nil && !rp.IsRetryable(err) {
			return err
		}

		if attempt == rp.MaxAttempts {
			break
		}

		if err := rp.Sleeper.Sleep(ctx, rp.Delay); err != nil {
			return errors.Wrap(err, errors.ErrorTypeTransport, "retry wait cancelled")
		}
	}

	return lastErr
}

// Clone returns a copy of the policy.
func (rp *RetryPolicy) Clone() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: rp.MaxAttempts,
		Delay:       rp.Delay,
		IsRetryable: rp.IsRetryable,
		Sleeper:     rp.Sleeper,
	}
}

// WithSleeper returns a copy of the policy using the given sleeper.
func (rp *RetryPolicy) WithSleeper(s Sleeper) *RetryPolicy {
	policy := rp.Clone()
	policy.Sleeper = s
	return policy
}

// NoRetryPolicy returns a policy that never retries.
func NoRetryPolicy() *RetryPolicy {
	return NewRetryPolicy(1, 0)
}
