// Package watch reports changes to the schedule store file made by other
// processes, so open views can rebuild from a fresh snapshot.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long writes are collected before one change is reported.
const DefaultDebounce = 250 * time.Millisecond

type Config struct {
	// DBPath is the store file. Its directory is watched, and changes to
	// the file or its -wal/-journal siblings count as store changes.
	DBPath   string
	Debounce time.Duration
	Logger   *slog.Logger
}

// StoreWatcher coalesces filesystem events on the store into a single
// notification per debounce window.
type StoreWatcher struct {
	watcher  *fsnotify.Watcher
	names    map[string]bool
	debounce time.Duration
	logger   *slog.Logger

	pendingMu sync.Mutex
	pending   bool

	changes chan struct{}
}

func NewStoreWatcher(cfg Config) (*StoreWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating store watcher: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(cfg.DBPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolving store path: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &StoreWatcher{
		watcher:  fsw,
		names:    map[string]bool{abs: true, abs + "-wal": true, abs + "-journal": true},
		debounce: debounce,
		logger:   logger,
		changes:  make(chan struct{}, 1),
	}, nil
}

// Changes yields one value per debounced burst of store writes. It is
// closed when the watcher stops.
func (w *StoreWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes events until ctx is done or the watcher is closed.
func (w *StoreWatcher) Run(ctx context.Context) {
	defer close(w.changes)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("store watcher error", "error", err)
		case <-ticker.C:
			w.flush()
		}
	}
}

// Close stops watching. Run returns shortly after.
func (w *StoreWatcher) Close() error {
	return w.watcher.Close()
}

func (w *StoreWatcher) handle(event fsnotify.Event) {
	name, err := filepath.Abs(event.Name)
	if err != nil || !w.names[name] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()
	w.logger.Debug("store change detected", "path", event.Name, "op", event.Op.String())
}

func (w *StoreWatcher) flush() {
	w.pendingMu.Lock()
	fire := w.pending
	w.pending = false
	w.pendingMu.Unlock()
	if !fire {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
		// A change is already queued; the reader will rebuild once.
	}
}
