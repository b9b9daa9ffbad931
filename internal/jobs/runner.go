// Package jobs runs the background work of a running app: activity refresh,
// periodic cleanup and watching the database file for writes by other
// processes.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/mj36/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Func is one unit of background work.
type Func func(ctx context.Context) error

type job struct {
	name string
	run  Func
}

// Runner starts its jobs together and stops them together.
type Runner struct {
	logger logging.Logger
	jobs   []job
}

func NewRunner(logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Runner{logger: logger.With("component", "jobs")}
}

// Every registers fn to be called every interval. Errors from fn are logged
// and the schedule continues.
func (r *Runner) Every(name string, interval time.Duration, fn Func) {
	r.Go(name, func(ctx context.Context) error {
		Tick(ctx, interval, func(ctx context.Context) {
			if err := fn(ctx); err != nil {
				r.logger.Warn(ctx, "job failed", "job", name, "error", err)
			}
		})
		return nil
	})
}

// Go registers a long-running job. A job returning an error other than the
// context's stops all other jobs.
func (r *Runner) Go(name string, fn Func) {
	r.jobs = append(r.jobs, job{name: name, run: fn})
}

// Run starts every job and blocks until all of them have returned.
// Cancelling ctx is the normal way to stop and is not reported as an error.
func (r *Runner) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, j := range r.jobs {
		g.Go(func() error {
			r.logger.Debug(gctx, "job started", "job", j.name)
			err := j.run(gctx)
			r.logger.Debug(gctx, "job stopped", "job", j.name)
			if err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Error(gctx, "job aborted", "job", j.name, "error", err)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// Tick calls fn every interval until ctx is done.
func Tick(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn(ctx)

		case <-ctx.Done():
			return
		}
	}
}
