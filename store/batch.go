package store

import (
	"context"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SplitWriteRequest partitions req into batches of at most
// MaxBatchWriteItems entries each. Entries are flattened in sorted table
// order, preserving each table's entry order, then grouped into consecutive
// batches. Concatenating the batches' entries per table, in batch order,
// reproduces the input's per-table order exactly.
func SplitWriteRequest(req WriteRequest) []WriteRequest {
	type flatEntry struct {
		table string
		write types.WriteRequest
	}

	tables := make([]string, 0, len(req))
	for table := range req {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var flat []flatEntry
	for _, table := range tables {
		for _, w := range req[table] {
			flat = append(flat, flatEntry{table: table, write: w})
		}
	}

	var batches []WriteRequest
	for i := 0; i < len(flat); i += MaxBatchWriteItems {
		end := i + MaxBatchWriteItems
		if end > len(flat) {
			end = len(flat)
		}
		batch := make(WriteRequest)
		for _, e := range flat[i:end] {
			batch[e.table] = append(batch[e.table], e.write)
		}
		batches = append(batches, batch)
	}
	return batches
}

// BatchWrite writes req in service-sized batches, sequentially to bound
// load, retrying each call on transient server faults and re-submitting
// unprocessed entries until the service accepts them. The first failure
// aborts the remaining batches; entries already written stay written.
func (s *Store) BatchWrite(ctx context.Context, req WriteRequest) error {
	r := s.serverRetryer()
	for _, batch := range SplitWriteRequest(req) {
		pending := map[string][]types.WriteRequest(batch)
		for len(pending) > 0 {
			input := &dynamodb.BatchWriteItemInput{RequestItems: pending}
			out, err := RetryValue(ctx, r, func(ctx context.Context) (*dynamodb.BatchWriteItemOutput, error) {
				return s.client.BatchWriteItem(ctx, input)
			})
			if err != nil {
				return err
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

// GetList retrieves the items for keys from table. The returned slice is
// parallel to keys: position i holds the item for keys[i], or nil when no
// such item exists (a miss is not an error). Duplicate keys are fetched
// once and share one answer. Unique keys are partitioned into groups of at
// most MaxBatchGetKeys and fetched concurrently, each group retried on
// transient server faults; any group failure fails the whole call.
func (s *Store) GetList(ctx context.Context, table string, keys []PK) ([]Item, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	keyAttrs := s.keyAttributes(table)
	unique, position := dedupeKeys(keys, keyAttrs)

	var groups [][]PK
	for i := 0; i < len(unique); i += MaxBatchGetKeys {
		end := i + MaxBatchGetKeys
		if end > len(unique) {
			end = len(unique)
		}
		groups = append(groups, unique[i:end])
	}

	// Fan out one fetch per group; the first failure cancels the rest.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := s.serverRetryer()
	fetched := make([][]map[string]types.AttributeValue, len(groups))
	errs := make(chan error, len(groups))
	var wg sync.WaitGroup

	for i, group := range groups {
		wg.Add(1)
		go func(i int, group []PK) {
			defer wg.Done()
			items, err := s.fetchGroup(ctx, r, table, group)
			if err != nil {
				errs <- err
				cancel()
				return
			}
			fetched[i] = items
		}(i, group)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var responses []map[string]types.AttributeValue
	for _, items := range fetched {
		responses = append(responses, items...)
	}

	// Resolve each unique key once, then fill every original position.
	resolved := make([]Item, len(unique))
	for i, key := range unique {
		for _, item := range responses {
			if keysMatch(key, item, keyAttrs) {
				resolved[i] = Item(item)
				break
			}
		}
	}

	out := make([]Item, len(keys))
	for i, u := range position {
		out[i] = resolved[u]
	}
	return out, nil
}

// fetchGroup issues a batched get for one key group, retrying transient
// faults and re-requesting unprocessed keys until the service has answered
// for every key.
func (s *Store) fetchGroup(ctx context.Context, r Retryer, table string, group []PK) ([]map[string]types.AttributeValue, error) {
	ks := make([]map[string]types.AttributeValue, len(group))
	for i, key := range group {
		ks[i] = key
	}

	var items []map[string]types.AttributeValue
	pending := map[string]types.KeysAndAttributes{
		table: {Keys: ks},
	}
	for len(pending) > 0 {
		input := &dynamodb.BatchGetItemInput{RequestItems: pending}
		out, err := RetryValue(ctx, r, func(ctx context.Context) (*dynamodb.BatchGetItemOutput, error) {
			return s.client.BatchGetItem(ctx, input)
		})
		if err != nil {
			return nil, err
		}
		for _, resp := range out.Responses {
			items = append(items, resp...)
		}
		pending = out.UnprocessedKeys
	}
	return items, nil
}

// dedupeKeys removes duplicate keys (first occurrence wins, order
// preserved) and maps each original position to its unique representative.
func dedupeKeys(keys []PK, keyAttrs []string) ([]PK, []int) {
	var unique []PK
	position := make([]int, len(keys))
	for i, key := range keys {
		found := -1
		for u, seen := range unique {
			if keysMatch(key, seen, keyAttrs) {
				found = u
				break
			}
		}
		if found < 0 {
			unique = append(unique, key)
			found = len(unique) - 1
		}
		position[i] = found
	}
	return unique, position
}
