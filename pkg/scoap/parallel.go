package scoap

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEachChunk calls fn over [0,n) split into contiguous chunks, one per
// worker. fn must only write to indices inside its chunk.
func forEachChunk(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if workers <= 1 || n < minParallelGates {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	size := (n + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
