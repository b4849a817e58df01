// Package watch re-renders a narrative whenever its file changes.
// The parent directory is watched rather than the file itself so that
// editors which save by rename-and-replace are still seen.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gaurav-prasanna/astropipe/logging"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 150 * time.Millisecond

// FileWatcher emits a file's path each time it is written or recreated.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	log      *logging.Logger
	debounce time.Duration
}

// New creates a FileWatcher. A nil logger discards watch errors.
func New(log *logging.Logger, debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{watcher: w, log: log, debounce: debounce}, nil
}

// Watch starts monitoring path. The returned channel is closed when ctx is
// done or the watcher is closed.
func (w *FileWatcher) Watch(ctx context.Context, path string) (<-chan string, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := w.watcher.Add(filepath.Dir(target)); err != nil {
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	changes := make(chan string, 1)

	go func() {
		defer close(changes)

		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(w.debounce)
				} else {
					timer.Reset(w.debounce)
				}
				fire = timer.C
			case <-fire:
				fire = nil
				select {
				case changes <- path:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "path", path, "error", err)
			}
		}
	}()

	return changes, nil
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}
