package dtype

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParallelFor splits [0, n) into disjoint sub-ranges of at most grain
// elements and runs fn for each on an errgroup. Operation tables are
// safe for concurrent invocation over disjoint memory, so fn may invoke
// the same handle's operations on each sub-range concurrently. A grain
// of <= 0 selects a default.
//
// The first error cancels the group's context; already-running
// sub-ranges finish their current chunk. Effects on completed elements
// are kept, matching the no-rollback bulk failure policy.
func ParallelFor(ctx context.Context, n, grain int64, fn func(ctx context.Context, start, count int64) error) error {
	if n <= 0 {
		return nil
	}
	if grain <= 0 {
		grain = 64 << 10
	}
	if n <= grain {
		return fn(ctx, 0, n)
	}

	g, ctx := errgroup.WithContext(ctx)
	for start := int64(0); start < n; start += grain {
		count := min(grain, n-start)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, start, count)
		})
	}
	return g.Wait()
}
