// Package watch re-runs the render pipeline whenever the slide directory
// changes. Renders are strictly serialized: events arriving while a render
// is in progress coalesce into a single follow-up run.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/backmassage/slidecast/internal/match"
)

// DefaultSettle is how long the directory must stay quiet before a render
// starts, so a batch of files being copied in triggers one render, not one
// per file.
const DefaultSettle = 2 * time.Second

// Handler runs one full render. It is never invoked concurrently.
type Handler func(ctx context.Context) error

// Logger is the minimal logging interface the watcher needs.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Watcher monitors one flat slide directory.
type Watcher struct {
	dir     string
	settle  time.Duration
	handler Handler
	log     Logger
	fs      *fsnotify.Watcher
}

// New creates a Watcher on dir. settle <= 0 selects [DefaultSettle].
func New(dir string, settle time.Duration, handler Handler, log Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{dir: dir, settle: settle, handler: handler, log: log, fs: fs}, nil
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run watches until ctx is cancelled. Every change to a recognized media
// file schedules a render once the directory has been quiet for the settle
// interval; render failures are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("Watching %s (settle %s)", w.dir, w.settle)

	timer := time.NewTimer(w.settle)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Watch stopped")
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				w.log.Debug("Ignoring event: %s", event)
				continue
			}
			w.log.Debug("Change detected: %s", event)
			pending = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.settle)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.handler(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.log.Error("Render failed: %v", err)
				w.log.Warn("Waiting for further changes")
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error("Watcher error: %v", err)
		}
	}
}

// relevant reports whether an event touches a recognized media file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	_, ok := match.Classify(w.dir, filepath.Base(event.Name))
	return ok
}
