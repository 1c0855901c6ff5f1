package psn

import (
	"context"
	"errors"
)

// ErrIteratorDone signals normal end of sequence from Iterator.Next.
// Check it with errors.Is; it is not a failure.
var ErrIteratorDone = errors.New("psn: no more items available")

// PageArgs is the cursor state handed to a page-fetch callback. The engine
// owns Offset and Cursor; callbacks read them to build the upstream request.
type PageArgs struct {
	// TotalLimit caps the total items yielded across all pages.
	// Nil means unbounded: drain the upstream fully.
	TotalLimit *int
	// PageSize is the item count requested per fetch, already clamped to
	// the resource's upstream maximum.
	PageSize int
	// Offset counts items yielded so far. It advances by exactly one per
	// item, not by page size, so short final pages keep it accurate.
	Offset int
	// Cursor is the opaque continuation token for cursor-paginated
	// resources. Empty on the first fetch unless a start cursor was set.
	Cursor string
}

// RequestedPageSize is the page size a fetch should ask upstream for:
// the configured page size, shrunk near a total limit so the final page
// is not over-fetched.
func (a *PageArgs) RequestedPageSize() int {
	if a.TotalLimit == nil {
		return a.PageSize
	}
	if remaining := *a.TotalLimit - a.Offset; remaining < a.PageSize {
		return remaining
	}
	return a.PageSize
}

// Page is one fetched page of items plus the upstream's continuation
// signals. Exactly one of NextOffset/NextCursor is meaningful per resource;
// HasNext is the authoritative more-pages signal either way.
type Page[T any] struct {
	Items []T
	// NextOffset is informational only: the engine advances its own offset
	// per yielded item and never reads it. Fetch callbacks derive HasNext
	// from it for offset-paginated resources.
	NextOffset     int
	NextCursor     string
	HasNext        bool
	TotalItemCount int
}

// FetchPage retrieves one page for the current cursor state. Implementations
// perform the network call, decode the resource's envelope, and report the
// upstream's continuation signal.
type FetchPage[T any] func(ctx context.Context, args *PageArgs) (Page[T], error)

// IteratorOptions configures a new Iterator.
type IteratorOptions struct {
	// TotalLimit caps the items yielded in total; nil means unbounded.
	TotalLimit *int
	// PageSize is the requested per-fetch size. Values above MaxPageSize
	// are silently clamped; non-positive values fall back to MaxPageSize.
	PageSize int
	// MaxPageSize is the upstream's per-page maximum for this resource.
	MaxPageSize int
	// Offset is the starting offset (offset-paginated resources).
	Offset int
	// Cursor is the starting continuation token (cursor-paginated resources).
	Cursor string
}

// Iterator is a lazy, pull-based, forward-only sequence of T. Each advance
// may perform network I/O and may fail; a fetch error latches the iterator.
// Iterators are not restartable; construct a new one to start over.
type Iterator[T any] struct {
	fetch FetchPage[T]
	args  PageArgs

	buffer    []T
	bufferIdx int
	fetched   bool
	hasNext   bool
	total     int
	err       error
}

// NewIterator builds an iterator over fetch with the given pagination policy.
func NewIterator[T any](fetch FetchPage[T], opts IteratorOptions) *Iterator[T] {
	pageSize := opts.PageSize
	if opts.MaxPageSize > 0 && (pageSize <= 0 || pageSize > opts.MaxPageSize) {
		pageSize = opts.MaxPageSize
	}

	return &Iterator[T]{
		fetch: fetch,
		args: PageArgs{
			TotalLimit: opts.TotalLimit,
			PageSize:   pageSize,
			Offset:     opts.Offset,
			Cursor:     opts.Cursor,
		},
	}
}

// limitReached reports whether the client-side cap terminates the sequence.
// Checked with >= so a hypothetical multi-step offset jump cannot overshoot
// past the boundary unnoticed.
func (it *Iterator[T]) limitReached() bool {
	return it.args.TotalLimit != nil && it.args.Offset >= *it.args.TotalLimit
}

// HasNext reports whether another item may be available. It is optimistic
// before the first fetch; Next is the authoritative check.
func (it *Iterator[T]) HasNext() bool {
	if it.err != nil || it.limitReached() {
		return false
	}
	return it.bufferIdx < len(it.buffer) || !it.fetched || it.hasNext
}

// Next returns the next item. It fetches further pages on demand, stopping
// at upstream exhaustion or the total-item cap, whichever comes first.
// End of sequence is reported as ErrIteratorDone; fetch errors are returned
// as-is and repeat on subsequent calls.
func (it *Iterator[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if it.err != nil {
		return zero, it.err
	}
	if it.limitReached() {
		return zero, ErrIteratorDone
	}

	// An empty items list with has-next still set is not terminal; keep
	// fetching until a page has items or upstream says it is done.
	for it.bufferIdx >= len(it.buffer) {
		if it.fetched && !it.hasNext {
			return zero, ErrIteratorDone
		}

		page, err := it.fetch(ctx, &it.args)
		if err != nil {
			it.err = err
			return zero, err
		}

		it.buffer = page.Items
		it.bufferIdx = 0
		it.fetched = true
		it.hasNext = page.HasNext
		it.total = page.TotalItemCount
		it.args.Cursor = page.NextCursor
	}

	item := it.buffer[it.bufferIdx]
	it.bufferIdx++
	it.args.Offset++

	return item, nil
}

// TotalItemCount returns the upstream-reported total for the resource, as
// of the most recent fetch. Advisory only: it is zero before the first
// fetch and independent of any client-side cap.
func (it *Iterator[T]) TotalItemCount() int {
	return it.total
}

// Err returns the error that latched the iterator, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Collect drains the iterator and returns every remaining item.
func (it *Iterator[T]) Collect(ctx context.Context) ([]T, error) {
	var items []T
	for {
		item, err := it.Next(ctx)
		if errors.Is(err, ErrIteratorDone) {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

// intPtr is a small helper for building a TotalLimit in place.
func intPtr(v int) *int { return &v }
