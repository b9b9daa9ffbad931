package cli

import (
	"context"

	"github.com/dmitrijs2005/mj36/internal/jobs"
)

// backgroundJobs builds the jobs that run next to the REPL: last-active
// refresh, cleanup of expired content and, for file databases, the watcher
// reporting writes by other processes.
func (a *App) backgroundJobs() *jobs.Runner {
	r := jobs.NewRunner(a.logger)

	r.Every("activity", a.config.ActivityInterval, a.session.UpdateUserActivity)
	r.Every("cleanup", a.config.CleanupInterval, func(ctx context.Context) error {
		_, err := a.store.Cleanup(ctx)
		return err
	})

	if a.config.WatchExternal && a.db != nil && a.config.DatabasePath != ":memory:" {
		w := jobs.NewFileWatcher(a.config.DatabasePath, a.config.WatchDebounce, func(ctx context.Context) error {
			_, err := a.store.CheckExternal(ctx)
			return err
		}, a.logger)
		r.Go("external-watcher", w.Run)
	}

	return r
}
