// Package runner fans verifier invocations out over a bounded worker pool.
package runner

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/mattco98/gcverify/toolchain"
	"golang.org/x/sync/errgroup"
)

// Analyzer runs the verification of a single file to completion.
// *toolchain.Verifier is the production implementation.
type Analyzer interface {
	Run(ctx context.Context, path string) toolchain.Result
}

// ResultCache lets the runner skip files whose contents were already
// verified clean. All methods must be safe for concurrent use.
type ResultCache interface {
	IsClean(path string) (bool, error)
	MarkClean(path string) error
	Invalidate(path string) error
}

// Summary aggregates what happened across the whole worklist.
type Summary struct {
	// Analyzed counts invocations that ran to completion.
	Analyzed int
	// Skipped counts files served from the result cache.
	Skipped int
	// Findings counts invocations with a non-zero exit or spawn failure.
	Findings int
	// Interrupted is set when the run was cancelled before draining the
	// worklist.
	Interrupted bool
}

// Runner dispatches one Analyzer invocation per worklist entry across a
// fixed-size pool. Cache is optional; a nil cache disables skipping.
type Runner struct {
	Analyzer Analyzer
	Emitter  *Emitter
	Cache    ResultCache
	// Jobs is the pool size; values <= 0 select DefaultJobs().
	Jobs int
}

// DefaultJobs leaves two logical processors for the rest of the system,
// never dropping below one worker.
func DefaultJobs() int {
	if n := runtime.NumCPU() - 2; n > 1 {
		return n
	}
	return 1
}

// Run processes the worklist and blocks until every scheduled invocation
// has finished or the context is cancelled. At most Jobs invocations are
// in flight at any time; each worker blocks on exactly one child process.
// Per-file findings never abort the batch. Cancellation kills in-flight
// children (via the invocation's context) and abandons queued entries
// without draining them.
func (r *Runner) Run(ctx context.Context, paths []string) (Summary, error) {
	jobs := r.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	var analyzed, skipped atomic.Int64

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}

		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if r.Cache != nil {
				// Cache errors degrade to re-analysis, never fail the run.
				if clean, err := r.Cache.IsClean(path); err == nil && clean {
					skipped.Add(1)
					return nil
				}
			}

			res := r.Analyzer.Run(gctx, path)
			if err := gctx.Err(); err != nil {
				// The child was killed by cancellation; whatever partial
				// output it produced must not be emitted.
				return err
			}

			if err := r.Emitter.Emit(res); err != nil {
				return err
			}
			analyzed.Add(1)

			if r.Cache != nil {
				// A finding must also evict any stale clean entry left
				// over from an earlier version of the file.
				if res.Clean() {
					_ = r.Cache.MarkClean(path)
				} else {
					_ = r.Cache.Invalidate(path)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		// Cancelled between scheduling entries, with no worker left to
		// report it.
		err = ctx.Err()
	}

	sum := Summary{
		Analyzed: int(analyzed.Load()),
		Skipped:  int(skipped.Load()),
		Findings: int(r.Emitter.Failures()),
	}

	if err != nil && errors.Is(err, context.Canceled) {
		sum.Interrupted = true
	}

	return sum, err
}
