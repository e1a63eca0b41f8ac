// Package batch runs work over index ranges in bounded increments.
package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc receives the number of items completed so far
type ProgressFunc func(done, total int)

// Each splits [0, total) into consecutive batches of at most size items
// and calls fn for each one in order. After every batch it reports progress
// and yields the processor before starting the next. The context is checked
// before each batch; an error from fn or the context stops iteration.
func Each(ctx context.Context, total, size int, fn func(ctx context.Context, start, end int) error, progress ProgressFunc) error {
	if size < 1 {
		size = 1
	}

	for start := 0; start < total; start += size {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+size, total)
		if err := fn(ctx, start, end); err != nil {
			return err
		}

		if progress != nil {
			progress(end, total)
		}
		runtime.Gosched()
	}

	return nil
}

// Parallel calls fn for every index in [start, end) with at most limit
// calls in flight. It returns the first error; the context passed to fn is
// cancelled once any call fails.
func Parallel(ctx context.Context, start, end, limit int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := start; i < end; i++ {
		g.Go(func() error {
			return fn(gctx, i)
		})
	}

	return g.Wait()
}
