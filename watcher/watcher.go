// Package watcher observes one file for changes and invokes a reload callback
// after a quiet period, collapsing a burst of writes into a single reload.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period before the callback fires.
const DefaultDebounce = time.Second

// Watcher drives reloads from filesystem change notifications.
// The parent directory is watched rather than the file itself: editors and
// config management tools replace files atomically, which surfaces as Create.
type Watcher struct {
	path     string
	callback func()
	debounce time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	fw      *fsnotify.Watcher
	timer   *time.Timer
	started bool
	stopped bool
}

// New creates a watcher for the given file with the default debounce.
func New(path string, callback func(), logger zerolog.Logger) *Watcher {
	return NewWithDebounce(path, callback, DefaultDebounce, logger)
}

// NewWithDebounce creates a watcher with an explicit debounce duration.
func NewWithDebounce(path string, callback func(), debounce time.Duration, logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:     path,
		callback: callback,
		debounce: debounce,
		logger:   logger.With().Str("watch", filepath.Base(path)).Logger(),
	}
}

// Start begins observing. Non-blocking; events are handled on a background
// goroutine. Setup errors (watcher creation, missing directory) propagate.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("watcher already started")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	w.fw = fw
	w.started = true
	go w.loop()

	w.logger.Info().Str("dir", dir).Msg("file watcher started")
	return nil
}

// Stop halts observation and cancels any pending debounce timer.
// Safe to call if never started, and safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if !w.started || w.stopped {
		return
	}
	w.stopped = true
	w.fw.Close()
	w.logger.Info().Msg("file watcher stopped")
}

func (w *Watcher) loop() {
	filename := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug().Str("event", event.Op.String()).Msg("change detected, debouncing")
				w.arm()
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}

// arm (re)starts the debounce timer. Stopping the previous timer before
// scheduling a new one guarantees only the most recent timer fires.
func (w *Watcher) arm() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.logger.Info().Msg("quiet period elapsed, triggering reload")
		w.callback()
	})
}
