package ingest

import (
	"context"
	"errors"
)

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 1000

var errCursorStalled = errors.New("pagination cursor did not advance")

// PageSource returns up to first records with an id strictly greater than
// after, in ascending id order. An empty after means from the beginning.
type PageSource[T any] interface {
	Page(ctx context.Context, first int, after string) ([]T, error)
}

// PageSourceFunc adapts a function to PageSource
type PageSourceFunc[T any] func(ctx context.Context, first int, after string) ([]T, error)

func (f PageSourceFunc[T]) Page(ctx context.Context, first int, after string) ([]T, error) {
	return f(ctx, first, after)
}

// FetchAll drains src page by page and returns every record in the order
// received along with the number of page requests made. A page shorter
// than pageSize ends the traversal. On error nothing is returned.
func FetchAll[T interface{ RecordID() string }](ctx context.Context, src PageSource[T], pageSize int) ([]T, int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		all    []T
		cursor string
		pages  int
	)

	for {
		pages++
		page, err := src.Page(ctx, pageSize, cursor)
		if err != nil {
			return nil, pages, &ProviderError{Cursor: cursor, Page: pages, Err: err}
		}

		all = append(all, page...)

		if len(page) < pageSize {
			return all, pages, nil
		}

		next := page[len(page)-1].RecordID()
		if next == cursor {
			return nil, pages, &ProviderError{Cursor: cursor, Page: pages, Err: errCursorStalled}
		}
		cursor = next
	}
}
