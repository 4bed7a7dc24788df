package paginate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// MaxPageSize is the largest page the API honors.
const MaxPageSize = 100

// ErrCursorStalled is returned when the server reports another page but
// hands back an empty or repeated cursor. Following it would loop forever.
var ErrCursorStalled = errors.New("pagination cursor did not advance")

// Page is one decoded page of a collection.
type Page[T any] struct {
	// Items are the page's items in server order.
	Items []T

	// HasNextPage reports whether another page follows.
	HasNextPage bool

	// EndCursor is passed as the "after" parameter of the next request.
	EndCursor string
}

// URLBuilder returns the URL of the page of size first that follows the
// cursor after. after is empty for the first page.
type URLBuilder func(first int, after string) string

// FetchFunc requests and decodes one page.
type FetchFunc[T any] func(ctx context.Context, url string) (Page[T], error)

// Result is the outcome of a walk.
//
// Design decision: the error that ended a walk is reported alongside the
// items instead of replacing them, because callers always render whatever
// was fetched. A nil Err means the collection was exhausted.
type Result[T any] struct {
	// Items are all accumulated items in server order.
	Items []T

	// Pages is the number of pages fetched successfully.
	Pages int

	// Err is the error that ended the walk early, or nil.
	Err error
}

// Partial reports whether the walk ended before the collection was exhausted.
func (r Result[T]) Partial() bool {
	return r.Err != nil
}

// options configures a walk.
type options struct {
	pageSize int
	logger   *slog.Logger
	name     string
	onPage   func(page, items int)
}

// Option configures a walk.
type Option func(*options)

// WithPageSize sets the number of items requested per page.
// Values are clamped to [1, MaxPageSize].
func WithPageSize(n int) Option {
	return func(o *options) {
		switch {
		case n < 1:
			o.pageSize = 1
		case n > MaxPageSize:
			o.pageSize = MaxPageSize
		default:
			o.pageSize = n
		}
	}
}

// WithLogger sets the logger used to report a failed walk.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName names the collection in log output, e.g. "projects".
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithPageCallback registers a function called after each successful page
// with the page number (1-based) and the running item count.
func WithPageCallback(fn func(page, items int)) Option {
	return func(o *options) {
		o.onPage = fn
	}
}

// Walk fetches every page of a collection and returns the accumulated items.
//
// The walk stops when a page reports no next page, when a fetch fails, or
// when ctx is cancelled. On failure the items of all earlier pages are kept
// and the error is logged and returned in Result.Err.
func Walk[T any](ctx context.Context, build URLBuilder, fetch FetchFunc[T], opts ...Option) Result[T] {
	o := options{
		pageSize: MaxPageSize,
		logger:   slog.Default(),
		name:     "collection",
	}
	for _, opt := range opts {
		opt(&o)
	}

	var result Result[T]
	result.Items = make([]T, 0)

	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return result.stop(o, err)
		}

		url := build(o.pageSize, cursor)
		page, err := fetch(ctx, url)
		if err != nil {
			return result.stop(o, fmt.Errorf("page %d of %s: %w", result.Pages+1, o.name, err))
		}

		result.Items = append(result.Items, page.Items...)
		result.Pages++
		if o.onPage != nil {
			o.onPage(result.Pages, len(result.Items))
		}

		if !page.HasNextPage {
			o.logger.Debug("pagination complete",
				"collection", o.name,
				"pages", result.Pages,
				"items", len(result.Items),
			)
			return result
		}

		if page.EndCursor == "" || page.EndCursor == cursor {
			return result.stop(o, fmt.Errorf("page %d of %s: %w", result.Pages, o.name, ErrCursorStalled))
		}
		cursor = page.EndCursor
	}
}

// stop records err as the reason the walk ended and logs it.
func (r Result[T]) stop(o options, err error) Result[T] {
	r.Err = err
	o.logger.Error("pagination stopped early",
		"collection", o.name,
		"pages", r.Pages,
		"items", len(r.Items),
		"error", err,
	)
	return r
}
