package store

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrNotCountSelect is returned when a count operation is requested
	// without the COUNT projection. This is a usage error, raised before
	// any page is fetched, and is never retried.
	ErrNotCountSelect = errors.New("buttress: count requires Select to be COUNT")

	// ErrNilInput is returned when a facade operation receives a nil input.
	ErrNilInput = errors.New("buttress: nil input")
)

// MaxRetriesError is returned when a retry schedule is exhausted. It wraps
// the last underlying failure, so errors.Is and errors.As reach the cause.
// A MaxRetriesError is terminal: the retry engine never retries one, even
// when nested inside another retrying call.
type MaxRetriesError struct {
	// Attempts is the total number of attempts made, including the first.
	Attempts int

	// Cause is the failure observed on the final attempt.
	Cause error
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("buttress: max retries reached after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *MaxRetriesError) Unwrap() error {
	return e.Cause
}

// Cancellation reason codes reported inside TransactionCanceledException.
const (
	reasonConditionalCheckFailed = "ConditionalCheckFailed"
	reasonTransactionConflict    = "TransactionConflict"
)

// IsTransientServerError reports whether err is a temporary service-side
// fault worth retrying: throttling, an internal server error, or any API
// error the service attributes to itself rather than to the request.
func IsTransientServerError(err error) bool {
	if err == nil {
		return false
	}

	var throughput *types.ProvisionedThroughputExceededException
	if errors.As(err, &throughput) {
		return true
	}
	var limit *types.RequestLimitExceeded
	if errors.As(err, &limit) {
		return true
	}
	var internal *types.InternalServerError
	if errors.As(err, &internal) {
		return true
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorFault() == smithy.FaultServer
	}
	return false
}

// IsRetryableTransactionConflict reports whether err is a cancelled
// transaction that failed only because of concurrent modification. A
// cancellation that includes a conditional-check failure is never
// retryable: retrying cannot change the outcome of the caller's condition.
func IsRetryableTransactionConflict(err error) bool {
	var txErr *types.TransactionCanceledException
	if !errors.As(err, &txErr) {
		return false
	}

	conflict := false
	for _, reason := range txErr.CancellationReasons {
		if reason.Code == nil {
			continue
		}
		switch *reason.Code {
		case reasonConditionalCheckFailed:
			return false
		case reasonTransactionConflict:
			conflict = true
		}
	}
	return conflict
}
