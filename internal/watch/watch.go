// Package watch feeds documents dropped into a directory to the processing
// queue. Editor write bursts are coalesced with a per-file debounce timer.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vladimir-chernikin/normative-docs-qa/internal/parser"
)

// Submit hands a settled file to the pipeline.
type Submit func(path string) error

// Watcher observes a single directory (non-recursive) for supported
// document files.
type Watcher struct {
	dir      string
	debounce time.Duration
	submit   Submit
	log      *slog.Logger
	fsw      *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func New(dir string, debounce time.Duration, submit Submit, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		submit:   submit,
		log:      log,
		fsw:      fsw,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()
	w.log.Info("watching directory", "dir", w.dir, "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !parser.IsSupportedExtension(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)
		}
	}
}

// schedule arms (or re-arms) the debounce timer for a path. The file is
// submitted only after it has been quiet for the debounce window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if err := w.submit(path); err != nil {
			w.log.Error("submit failed", "path", path, "error", err)
			return
		}
		w.log.Info("submitted changed file", "path", path)
	})
}

// Close stops the watcher and cancels pending timers.
func (w *Watcher) Close() {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.fsw.Close()
}
