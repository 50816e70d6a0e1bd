// Package watch reloads statistics when their files change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonathan/bpk-stats/internal/fetch"
	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/types"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Reloader is implemented by *loader.Loader.
type Reloader interface {
	Reload(ctx context.Context) loader.State
}

// Watcher triggers a reload after any configured document file changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	reloader Reloader
	debounce time.Duration
	logger   *zap.Logger
}

// New watches the directories that hold the documents of a directory source.
// Directories that do not exist yet are skipped; at least one must exist.
func New(src *fetch.DirSource, docs []types.Document, reloader Reloader, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool, len(docs)),
		reloader: reloader,
		debounce: debounce,
		logger:   logger,
	}

	dirs := make(map[string]bool)
	for _, doc := range docs {
		file := filepath.Clean(src.Resolve(doc))
		w.files[file] = true
		dirs[filepath.Dir(file)] = true
	}

	watched := 0
	for dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("not watching missing directory", zap.String("dir", dir))
			continue
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		watched++
	}
	if watched == 0 {
		_ = fsw.Close()
		return nil, errors.New("no document directory exists to watch")
	}

	return w, nil
}

// relevant reports whether an event should trigger a reload.
// Permission changes never alter content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// Run processes file events until ctx is done. Bursts of events within the
// debounce window cause a single reload.
func (w *Watcher) Run(ctx context.Context) error {
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
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("document changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.logger.Info("documents changed on disk, reloading")
			state := w.reloader.Reload(ctx)
			if state.Failed() {
				w.logger.Warn("reload after file change failed", zap.String("error", state.Message))
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
