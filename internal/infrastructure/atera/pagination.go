package atera

import (
	"context"
	"fmt"

	"github.com/dreschagin/support-dashboard/internal/domain/entity"
)

const (
	DefaultPageSize = 50
	DefaultMaxPages = 40
)

// Page is the envelope of every paginated endpoint.
type Page[T any] struct {
	Items          []T  `json:"items"`
	TotalItemCount *int `json:"totalItemCount,omitempty"`
}

// PageFetcher loads one 1-based page.
type PageFetcher[T any] func(ctx context.Context, page, pageSize int) (Page[T], error)

type DrainOptions struct {
	PageSize int
	MaxPages int
}

func (o DrainOptions) withDefaults() DrainOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	return o
}

// Drain reads pages 1..MaxPages until the declared total is reached, a page comes back
// empty or short, or the page budget runs out. Whichever happens first wins; results past
// MaxPages are silently truncated.
func Drain[T any](ctx context.Context, fetch PageFetcher[T], opts DrainOptions) (entity.Collection[T], error) {
	opts = opts.withDefaults()

	items := make([]T, 0)
	declaredTotal := -1

	for page := 1; page <= opts.MaxPages; page++ {
		result, err := fetch(ctx, page, opts.PageSize)
		if err != nil {
			return entity.Collection[T]{}, fmt.Errorf("page %d: %w", page, err)
		}

		items = append(items, result.Items...)
		if result.TotalItemCount != nil {
			declaredTotal = *result.TotalItemCount
		}

		fetchedAllByTotal := declaredTotal >= 0 && len(items) >= declaredTotal
		reachedEnd := len(result.Items) == 0 || len(result.Items) < opts.PageSize
		if fetchedAllByTotal || reachedEnd {
			break
		}
	}

	total := len(items)
	if declaredTotal >= 0 {
		total = declaredTotal
	}

	return entity.Collection[T]{Items: items, TotalItemCount: total}, nil
}

// FetchPages adapts a paginated endpoint of the client to a PageFetcher.
func FetchPages[T any](c *Client, path string, params Params) PageFetcher[T] {
	return func(ctx context.Context, page, pageSize int) (Page[T], error) {
		query := make(Params, len(params)+2)
		for key, value := range params {
			query[key] = value
		}
		query["page"] = page
		query["itemsInPage"] = pageSize

		var result Page[T]
		if err := c.Get(ctx, path, query, &result); err != nil {
			return Page[T]{}, err
		}
		return result, nil
	}
}
