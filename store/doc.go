// Package store provides a resilience and batching layer over a DynamoDB
// client.
//
// Buttress is designed for applications that want DynamoDB's sharp edges
// absorbed at one boundary: transient server faults and transaction
// conflicts retried on a bounded schedule, batch calls split to the
// service's size ceilings, duplicate lookups collapsed, and paginated
// counts folded into one total.
//
// # Key Features
//
//   - Bounded retry with a configurable wait schedule ([Retryer])
//   - Transaction-conflict retry that never retries conditional-check failures
//   - Batch writes split at the 25-entry service ceiling, order preserved
//   - Batch gets deduplicated, split at the 100-key ceiling, fetched concurrently
//   - Unprocessed batch leftovers re-submitted until the service accepts them
//   - Count queries validated and aggregated across pages
//
// # The Client
//
// Store operates on any [DynamoDBClient]; *dynamodb.Client satisfies it:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	s := store.New(dynamodb.NewFromConfig(cfg), store.DefaultConfig())
//
// # Retry Behavior
//
// Put, Update, Delete, and each batch call retry transient server faults.
// TransactWrite layers conflict retry around server-fault retry, so a
// conflicted transaction is re-run with a fresh server-fault budget. Get,
// Scan, and Query never retry; their errors surface unchanged. Every
// retryable failure is reported through [Config.OnRetry] before the next
// wait begins. A schedule of N waits permits N retries; exhausting it
// yields a [MaxRetriesError] wrapping the final cause.
//
// # Key Matching
//
// GetList deduplicates keys and matches response items by comparing every
// key attribute against the item. Register table key schemas with a
// [Registry] to compare exactly the key attributes instead.
//
// # Errors
//
//   - [MaxRetriesError] - retry schedule exhausted; wraps the last cause
//   - [ErrNotCountSelect] - count requested without the COUNT projection
//   - [ErrNilInput] - nil input passed to a count operation
//
// Everything else propagates from the SDK unchanged. Classification helpers
// [IsTransientServerError] and [IsRetryableTransactionConflict] are exported
// for callers composing their own [Retryer].
package store
