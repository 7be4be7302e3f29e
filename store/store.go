package store

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Store wraps a DynamoDB client with bounded retry, batch chunking, key
// deduplication, and count aggregation. It owns no persistent state beyond
// the retry schedule and the retry notifier; every operation is a
// self-contained call against the underlying client.
type Store struct {
	client   DynamoDBClient
	onRetry  RetryNotifier
	registry *Registry

	mu       sync.RWMutex
	schedule []time.Duration
}

// New creates a new Store instance.
func New(client DynamoDBClient, config Config) *Store {
	config.validate()
	return &Store{
		client:   client,
		onRetry:  config.OnRetry,
		schedule: snapshotSchedule(config.RetrySchedule),
	}
}

// NewWithRegistry creates a new Store instance with a key-schema registry.
func NewWithRegistry(client DynamoDBClient, config Config, registry *Registry) *Store {
	s := New(client, config)
	s.registry = registry
	return s
}

// SetRegistry sets the key-schema registry consulted by GetList matching.
func (s *Store) SetRegistry(registry *Registry) {
	s.registry = registry
}

// Registry returns the key-schema registry, or nil if not set.
func (s *Store) Registry() *Registry {
	return s.registry
}

// SetRetrySchedule replaces the retry schedule. Calls already in flight
// keep the schedule they captured at start; only subsequent calls observe
// the new one.
func (s *Store) SetRetrySchedule(schedule []time.Duration) {
	dup := snapshotSchedule(schedule)
	s.mu.Lock()
	s.schedule = dup
	s.mu.Unlock()
}

// RetrySchedule returns a copy of the current retry schedule.
func (s *Store) RetrySchedule() []time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotSchedule(s.schedule)
}

// retrySchedule returns the schedule snapshot for one top-level call.
// Published slices are never mutated, so the snapshot needs no copy.
func (s *Store) retrySchedule() []time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule
}

func snapshotSchedule(schedule []time.Duration) []time.Duration {
	dup := make([]time.Duration, len(schedule))
	copy(dup, schedule)
	return dup
}

// serverRetryer builds the transient-server-fault Retryer for one call.
func (s *Store) serverRetryer() Retryer {
	return Retryer{
		Schedule: s.retrySchedule(),
		Classify: IsTransientServerError,
		OnRetry:  s.onRetry,
	}
}

// conflictRetryer builds the transaction-conflict Retryer for one call.
func (s *Store) conflictRetryer() Retryer {
	return Retryer{
		Schedule: s.retrySchedule(),
		Classify: IsRetryableTransactionConflict,
		OnRetry:  s.onRetry,
	}
}

// keyAttributes returns the registered key schema for table, or nil.
func (s *Store) keyAttributes(table string) []string {
	if s.registry == nil {
		return nil
	}
	return s.registry.KeyAttributes(table)
}

// Get retrieves one item. Reads pass straight through with no retry:
// single reads are idempotent and cheap for the caller to retry itself.
func (s *Store) Get(ctx context.Context, input *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	return s.client.GetItem(ctx, input)
}

// Put writes one item, retrying transient server faults.
func (s *Store) Put(ctx context.Context, input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	return RetryValue(ctx, s.serverRetryer(), func(ctx context.Context) (*dynamodb.PutItemOutput, error) {
		return s.client.PutItem(ctx, input)
	})
}

// Update updates one item, retrying transient server faults. Conditional
// check failures propagate unchanged.
func (s *Store) Update(ctx context.Context, input *dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error) {
	return RetryValue(ctx, s.serverRetryer(), func(ctx context.Context) (*dynamodb.UpdateItemOutput, error) {
		return s.client.UpdateItem(ctx, input)
	})
}

// Delete deletes one item, retrying transient server faults.
func (s *Store) Delete(ctx context.Context, input *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	return RetryValue(ctx, s.serverRetryer(), func(ctx context.Context) (*dynamodb.DeleteItemOutput, error) {
		return s.client.DeleteItem(ctx, input)
	})
}

// TransactWrite executes a transactional write. Retryable transaction
// conflicts are retried on the outer schedule; within each conflict attempt
// transient server faults are retried on a fresh inner schedule, so the
// inner budget resets every time the transaction is re-run. A cancellation
// that includes a conditional-check failure propagates immediately.
func (s *Store) TransactWrite(ctx context.Context, input *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
	outer := s.conflictRetryer()
	inner := s.serverRetryer()
	return RetryValue(ctx, outer, func(ctx context.Context) (*dynamodb.TransactWriteItemsOutput, error) {
		return RetryValue(ctx, inner, func(ctx context.Context) (*dynamodb.TransactWriteItemsOutput, error) {
			return s.client.TransactWriteItems(ctx, input)
		})
	})
}

// Scan returns a paginator over the items input matches. Page fetches are
// not retried; errors surface from NextPage unchanged.
func (s *Store) Scan(input *dynamodb.ScanInput) *dynamodb.ScanPaginator {
	return dynamodb.NewScanPaginator(s.client, input)
}

// Query returns a paginator over the items input matches. Page fetches are
// not retried; errors surface from NextPage unchanged.
func (s *Store) Query(input *dynamodb.QueryInput) *dynamodb.QueryPaginator {
	return dynamodb.NewQueryPaginator(s.client, input)
}
