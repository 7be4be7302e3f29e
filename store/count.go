package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CountPager yields the count fields of a counts-only paginated scan or
// query, one page at a time. The sequence is forward-only and finite.
type CountPager interface {
	// HasMorePages returns true while pages remain.
	HasMorePages() bool

	// NextCount fetches the next page and returns its count.
	NextCount(ctx context.Context) (int32, error)
}

// SumCounts folds a page sequence into a single total. A page fetch error
// aborts the fold and propagates unchanged.
func SumCounts(ctx context.Context, pages CountPager) (int64, error) {
	var total int64
	for pages.HasMorePages() {
		n, err := pages.NextCount(ctx)
		if err != nil {
			return 0, err
		}
		total += int64(n)
	}
	return total, nil
}

// ScanCount runs a counts-only scan and sums the per-page counts.
// input.Select must be types.SelectCount; anything else fails with
// [ErrNotCountSelect] before any page is fetched.
func (s *Store) ScanCount(ctx context.Context, input *dynamodb.ScanInput) (int64, error) {
	if input == nil {
		return 0, ErrNilInput
	}
	if input.Select != types.SelectCount {
		return 0, ErrNotCountSelect
	}
	return SumCounts(ctx, scanCountPager{dynamodb.NewScanPaginator(s.client, input)})
}

// QueryCount runs a counts-only query and sums the per-page counts.
// input.Select must be types.SelectCount; anything else fails with
// [ErrNotCountSelect] before any page is fetched.
func (s *Store) QueryCount(ctx context.Context, input *dynamodb.QueryInput) (int64, error) {
	if input == nil {
		return 0, ErrNilInput
	}
	if input.Select != types.SelectCount {
		return 0, ErrNotCountSelect
	}
	return SumCounts(ctx, queryCountPager{dynamodb.NewQueryPaginator(s.client, input)})
}

type scanCountPager struct {
	p *dynamodb.ScanPaginator
}

func (s scanCountPager) HasMorePages() bool { return s.p.HasMorePages() }

func (s scanCountPager) NextCount(ctx context.Context) (int32, error) {
	page, err := s.p.NextPage(ctx)
	if err != nil {
		return 0, err
	}
	return page.Count, nil
}

type queryCountPager struct {
	p *dynamodb.QueryPaginator
}

func (q queryCountPager) HasMorePages() bool { return q.p.HasMorePages() }

func (q queryCountPager) NextCount(ctx context.Context) (int32, error) {
	page, err := q.p.NextPage(ctx)
	if err != nil {
		return 0, err
	}
	return page.Count, nil
}
