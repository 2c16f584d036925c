// Package walker enumerates index-addressed on-chain arrays that expose no
// length accessor.
//
// The walk probes index 0, 1, 2, ... and treats the first failed read of any
// kind as the end of the collection. A transient RPC failure at index k is
// therefore indistinguishable from an out-of-bounds revert and truncates the
// result to k items. Callers that can tell the two apart should do so in
// their ReadFunc and return the item only on success.
package walker

import (
	"context"
	"iter"

	"github.com/govkit/govsync/sdk"
)

// ReadFunc reads the element stored at index.
type ReadFunc[T any] func(ctx context.Context, index uint64) (T, error)

type options struct {
	limit uint64
}

// Option configures a walk.
type Option func(*options)

// WithLimit stops the walk after n items even if reads keep succeeding.
func WithLimit(n uint64) Option {
	return func(o *options) {
		o.limit = n
	}
}

// Seq returns a lazy sequence over the collection. Each range over the
// sequence restarts from index 0. The read error that ended the walk is not
// reported; use Walk when it matters.
func Seq[T any](ctx context.Context, read ReadFunc[T], opts ...Option) iter.Seq2[uint64, T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(uint64, T) bool) {
		for i := uint64(0); o.limit == 0 || i < o.limit; i++ {
			item, err := read(ctx, i)
			if err != nil {
				return
			}
			if !yield(i, item) {
				return
			}
		}
	}
}

// Walk collects every item of the collection. stop is the read error that
// ended the walk, or nil when the limit was reached. Walk never retries.
func Walk[T any](ctx context.Context, read ReadFunc[T], opts ...Option) (items []T, stop error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	for i := uint64(0); o.limit == 0 || i < o.limit; i++ {
		item, err := read(ctx, i)
		if err != nil {
			sdk.LoggerFrom(ctx).Debugf("collection walk ended at index %d: %v", i, err)

			return items, err
		}
		items = append(items, item)
	}

	return items, nil
}

// MapTolerant reads a detail record for each key in order. A failed read
// does not shorten the result: placeholder supplies the record for that key
// and the walk continues with the next key. The second return value counts
// the substituted keys.
func MapTolerant[K, T any](
	ctx context.Context,
	keys []K,
	read func(ctx context.Context, key K) (T, error),
	placeholder func(key K, err error) T,
) ([]T, int) {
	out := make([]T, 0, len(keys))
	failed := 0
	for _, key := range keys {
		item, err := read(ctx, key)
		if err != nil {
			failed++
			out = append(out, placeholder(key, err))

			continue
		}
		out = append(out, item)
	}

	return out, failed
}
