package store

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryEvent describes one retryable failure observed by a [Retryer].
type RetryEvent struct {
	// Attempt is the zero-based index of the attempt that failed.
	Attempt int

	// Err is the retryable failure.
	Err error
}

// RetryNotifier receives retry events. It runs synchronously on the retry
// path, so implementations must return promptly.
type RetryNotifier func(RetryEvent)

// LogRetries returns a notifier that records retry events on logger at
// Warn level. A nil logger uses slog.Default.
func LogRetries(logger *slog.Logger) RetryNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev RetryEvent) {
		logger.Warn("retrying after transient failure",
			"attempt", ev.Attempt,
			"error", ev.Err,
		)
	}
}

// Retryer re-runs a failing operation according to a wait schedule.
// Schedule entry i is the wait before attempt i+2, so its length is the
// maximum number of retries; an empty schedule permits no retries.
// Classify decides whether a failure is worth retrying; OnRetry, if set,
// is invoked for every retryable failure before the schedule is consulted.
//
// A Retryer is a stateless value: attempt state lives in each Do call, so
// one Retryer may be shared across sequential and concurrent calls.
type Retryer struct {
	Schedule []time.Duration
	Classify func(error) bool
	OnRetry  RetryNotifier
}

// Do runs op, retrying classified failures until the schedule is exhausted.
// Non-retryable errors propagate unchanged. Once the schedule runs out, Do
// returns a [MaxRetriesError] wrapping the final failure. Cancelling ctx
// during a backoff wait returns ctx.Err(); no deadline of its own is
// imposed.
func (r Retryer) Do(ctx context.Context, op func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		// An exhausted nested retryer is terminal, regardless of its cause.
		var maxErr *MaxRetriesError
		if errors.As(err, &maxErr) {
			return err
		}

		if r.Classify == nil || !r.Classify(err) {
			return err
		}

		if r.OnRetry != nil {
			r.OnRetry(RetryEvent{Attempt: attempt, Err: err})
		}

		if attempt >= len(r.Schedule) {
			return &MaxRetriesError{Attempts: attempt + 1, Cause: err}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Schedule[attempt]):
		}
	}
}

// RetryValue runs a value-returning operation under r. On failure the
// zero value is returned alongside the error from [Retryer.Do].
func RetryValue[T any](ctx context.Context, r Retryer, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := r.Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
