package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/mj36/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events a single SQLite commit
// produces.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher calls OnChange once a burst of writes to a database file has
// settled. The file's -wal and -journal companions count as the file.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange Func
	logger   logging.Logger
}

func NewFileWatcher(path string, debounce time.Duration, onChange Func, logger logging.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &FileWatcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		logger:   logger.With("component", "watcher"),
	}
}

// Run watches until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// The directory is watched because SQLite replaces and recreates its
	// companion files.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.logger.Debug(ctx, "watching database file", "path", w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "file watcher error", "error", err)

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.logger.Warn(ctx, "change handler failed", "error", err)
			}
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return strings.HasPrefix(filepath.Base(event.Name), filepath.Base(w.path))
}
