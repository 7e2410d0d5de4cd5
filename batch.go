package pdfedit

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one job in RunBatch.
type BatchResult struct {
	Input  Input
	Result *Result
	Err    error
}

// RunBatch runs jobs on pipelines from pool, at most pool.Size() at a time.
// hooksFor returns the hooks for job i and may be nil. Results are returned
// in job order; a failing job does not stop the others. Jobs not yet started
// when ctx is canceled fail with the context error.
func RunBatch(ctx context.Context, pool *PipelinePool, jobs []Input, hooksFor func(i int, in Input) Hooks) []BatchResult {
	results := make([]BatchResult, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(pool.Size())

	for i, in := range jobs {
		results[i].Input = in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			pl, err := pool.Acquire(ctx)
			if err != nil {
				results[i].Err = err
				return nil
			}
			defer pool.Release(pl)

			var hooks Hooks
			if hooksFor != nil {
				hooks = hooksFor(i, in)
			}
			results[i].Result, results[i].Err = pl.Run(ctx, in, hooks)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
