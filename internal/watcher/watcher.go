package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"tidy/internal/classify"
	"tidy/internal/config"
	"tidy/internal/faults"
	"tidy/internal/logging"
)

// Event announces a file that has settled and is ready to organize.
type Event struct {
	Path string
}

// pendingFile tracks a path between its last filesystem event and the
// moment it settles.
type pendingFile struct {
	lastEvent time.Time
	size      int64
	sized     bool
}

// Watcher monitors the watch directory tree with fsnotify and emits an
// Event once a file has stopped changing for the settle window. Events
// inside category directories are ignored so organized files never
// re-enter the pipeline.
type Watcher struct {
	mu       sync.Mutex
	cfg      *config.Config
	table    *classify.Table
	fs       *fsnotify.Watcher
	logger   *slog.Logger
	events   chan Event
	pending  map[string]pendingFile
	settle   time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	watchDir string
}

// New builds a Watcher for the configured watch directory.
func New(cfg *config.Config, logger *slog.Logger) (*Watcher, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	watchDir := strings.TrimSpace(cfg.Paths.WatchDir)
	if watchDir == "" {
		return nil, faults.Wrap(
			faults.ErrMissingRoot,
			"watcher",
			"resolve watch dir",
			"Watch directory not configured; set watch_dir in your tidy config.toml",
			nil,
		)
	}
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, faults.Wrap(faults.ErrTransient, "watcher", "create fsnotify watcher", "Failed to initialize filesystem watcher", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	settle := time.Duration(cfg.Watcher.SettleWindowMS) * time.Millisecond
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}

	return &Watcher{
		cfg:      cfg,
		table:    table,
		fs:       notifier,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		events:   make(chan Event, 64),
		pending:  make(map[string]pendingFile),
		settle:   settle,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		watchDir: watchDir,
	}, nil
}

// Events returns the channel of settled file events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start registers the watch directory tree and begins the event loop.
// It is non-blocking; the loop runs until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.watchDir); err != nil {
		// The run goroutine never launched, so Stop must not wait on it.
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.logger.Info("watching directory", logging.String(logging.FieldPath, w.watchDir))

	go w.run(ctx)
	return nil
}

// Stop halts the event loop and closes the fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fs.Close(); err != nil {
		w.logger.Warn("error closing fsnotify watcher", logging.Error(err))
	}
}

// addTree watches dir and every non-category subdirectory beneath it.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if w.insideCategoryDir(path) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
	if err != nil {
		return faults.Wrap(faults.ErrTransient, "watcher", "watch tree", "Failed to watch "+dir, err)
	}
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fsnotify error", logging.Error(err))
		case <-ticker.C:
			w.flushSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			w.mu.Lock()
			delete(w.pending, event.Name)
			w.mu.Unlock()
		}
		return
	}
	if w.insideCategoryDir(event.Name) {
		return
	}

	info, err := os.Lstat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", logging.String(logging.FieldPath, event.Name), logging.Error(err))
			}
		}
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = pendingFile{lastEvent: time.Now(), size: info.Size(), sized: true}
	w.mu.Unlock()
}

// flushSettled emits pending files whose last event is older than the
// settle window and whose size has stopped changing.
func (w *Watcher) flushSettled(ctx context.Context) {
	now := time.Now()
	var settled []string

	w.mu.Lock()
	for path, state := range w.pending {
		if now.Sub(state.lastEvent) < w.settle {
			continue
		}
		info, err := os.Lstat(path)
		if errors.Is(err, os.ErrNotExist) {
			delete(w.pending, path)
			continue
		}
		if err != nil {
			continue
		}
		if state.sized && info.Size() != state.size {
			w.pending[path] = pendingFile{lastEvent: now, size: info.Size(), sized: true}
			continue
		}
		delete(w.pending, path)
		settled = append(settled, path)
	}
	w.mu.Unlock()

	for _, path := range settled {
		select {
		case w.events <- Event{Path: path}:
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) insideCategoryDir(path string) bool {
	rel, err := filepath.Rel(w.watchDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	first := rel
	if idx := strings.IndexByte(rel, filepath.Separator); idx >= 0 {
		first = rel[:idx]
	}
	return w.table.Contains(first)
}
