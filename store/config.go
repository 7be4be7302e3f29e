package store

import (
	"time"

	"github.com/jacentio/buttress/internal/backoff"
)

// Service batch ceilings. DynamoDB rejects batched calls above these sizes,
// so [SplitWriteRequest] and [Store.GetList] partition work to fit.
const (
	// MaxBatchWriteItems is the most write entries one BatchWriteItem call accepts.
	MaxBatchWriteItems = 25

	// MaxBatchGetKeys is the most keys one BatchGetItem call accepts.
	MaxBatchGetKeys = 100
)

// Config holds configuration for the Store.
type Config struct {
	// RetrySchedule is the ordered list of waits between attempts: entry i
	// is the wait before attempt i+2, so the length caps the number of
	// retries. nil means DefaultRetrySchedule(); an explicitly empty,
	// non-nil schedule disables retries.
	RetrySchedule []time.Duration

	// OnRetry, if set, is called synchronously for every retryable failure
	// across all retried operations. Keep it fast; it sits inline in the
	// retry path. See [LogRetries] for a slog-backed notifier.
	OnRetry RetryNotifier
}

// DefaultConfig returns defaults suitable for interactive latency budgets.
func DefaultConfig() Config {
	return Config{
		RetrySchedule: DefaultRetrySchedule(),
	}
}

// DefaultRetrySchedule returns the default wait schedule: three retries
// backing off from 250ms, capped at 2s.
func DefaultRetrySchedule() []time.Duration {
	return backoff.Schedule(3, 250*time.Millisecond, 2*time.Second)
}

// validate normalizes config values.
func (c *Config) validate() {
	if c.RetrySchedule == nil {
		c.RetrySchedule = DefaultRetrySchedule()
	}
}
