package shared

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v5"
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Normalize clamps paging values into a sane range
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	if f.Filters == nil {
		f.Filters = make(map[string]any)
	}
	return f
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// numberedCreateAttempts bounds CreateNumbered. Two requests racing for the
// same number collide once; the loser's second draw sees the winner's row.
const numberedCreateAttempts = 2

// CreateNumbered draws a document number with next and hands it to create,
// which builds and stores the aggregate. When the store rejects the number as
// ALREADY_EXISTS the draw and create run again; other errors return at once.
func CreateNumbered[T any](ctx context.Context, next func(context.Context) (string, error), create func(number string) (T, error)) (T, error) {
	result, err := backoff.Retry(ctx, func() (T, error) {
		number, err := next(ctx)
		if err != nil {
			var zero T
			return zero, backoff.Permanent(err)
		}
		result, err := create(number)
		if err != nil && !errors.Is(err, ErrAlreadyExists) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}, backoff.WithBackOff(&backoff.ZeroBackOff{}), backoff.WithMaxTries(numberedCreateAttempts))

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return result, err
}
