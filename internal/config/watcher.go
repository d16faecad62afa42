package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cmdbmcp/pkg/logging"
)

const (
	// DefaultDebounceInterval is the time to wait before re-reading the cookie
	// file after the last change is detected.
	DefaultDebounceInterval = 500 * time.Millisecond

	// DefaultPollInterval is the fallback polling interval when fsnotify is unavailable.
	DefaultPollInterval = 5 * time.Second
)

// TokenWatcher re-reads the cookie file into a TokenCell whenever it changes.
// It watches the parent directory with fsnotify so editors that replace the
// file atomically are picked up, and falls back to polling the modification time.
type TokenWatcher struct {
	mu sync.Mutex

	path         string
	cell         *TokenCell
	pollInterval time.Duration
	debounce     time.Duration

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool
	lastMod   time.Time

	debounceTimer *time.Timer
	debounceMu    sync.Mutex

	// onReload is called after every reload attempt; used by tests.
	onReload func(error)
}

// NewTokenWatcher creates a watcher that keeps cell in sync with path.
func NewTokenWatcher(path string, cell *TokenCell) *TokenWatcher {
	return &TokenWatcher{
		path:         path,
		cell:         cell,
		pollInterval: DefaultPollInterval,
		debounce:     DefaultDebounceInterval,
	}
}

// Start begins watching. It is a no-op if the watcher is already running.
func (w *TokenWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.stopCh = make(chan struct{})
	w.running = true

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("TokenWatcher", "fsnotify not available, falling back to polling: %v", err)
		go w.pollForChanges()
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		logging.Warn("TokenWatcher", "Failed to watch directory %s, falling back to polling: %v", dir, err)
		watcher.Close()
		go w.pollForChanges()
		return nil
	}
	w.fsWatcher = watcher

	go w.processEvents(watcher.Events, watcher.Errors)

	logging.Info("TokenWatcher", "Watching %s for cookie changes", w.path)
	return nil
}

// Run starts the watcher and blocks until ctx is done.
func (w *TokenWatcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

func (w *TokenWatcher) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error) {
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logging.Debug("TokenWatcher", "Cookie file changed: %s", event.Op)
			w.reloadDebounced()

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("TokenWatcher", err, "fsnotify error")
		}
	}
}

func (w *TokenWatcher) reloadDebounced() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()

		if running {
			w.reload()
		}
	})
}

func (w *TokenWatcher) reload() {
	err := w.cell.LoadFile(w.path)
	if err != nil {
		logging.Warn("TokenWatcher", "Keeping previous cookie: %v", err)
	} else {
		logging.Info("TokenWatcher", "Reloaded session cookie from %s", w.path)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *TokenWatcher) pollForChanges() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	if info, err := os.Stat(w.path); err == nil {
		w.lastMod = info.ModTime()
	}

	for {
		select {
		case <-w.stopCh:
			return

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(w.lastMod) {
				w.lastMod = info.ModTime()
				logging.Debug("TokenWatcher", "Cookie file change detected via polling")
				w.reloadDebounced()
			}
		}
	}
}

// Stop gracefully stops the watcher.
func (w *TokenWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			logging.Warn("TokenWatcher", "Error closing fsnotify watcher: %v", err)
		}
		w.fsWatcher = nil
	}

	logging.Info("TokenWatcher", "Stopped cookie watcher")
	return nil
}

// IsRunning returns whether the watcher is currently active.
func (w *TokenWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
