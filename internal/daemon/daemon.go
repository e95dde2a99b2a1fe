package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"tidy/internal/config"
	"tidy/internal/journal"
	"tidy/internal/logging"
	"tidy/internal/notifications"
	"tidy/internal/organizer"
	"tidy/internal/watcher"
)

// Daemon coordinates the watcher, organizer, and journal, and enforces
// single-instance execution through a lock file. All organize work runs
// on one goroutine so moves and recounts never race.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *journal.Store
	notifier notifications.Service
	org      *organizer.Organizer
	watch    *watcher.Watcher

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	sweepReqs chan sweepRequest

	mu        sync.RWMutex
	counts    map[string]int
	lastError string
}

type sweepRequest struct {
	reply chan sweepReply
}

type sweepReply struct {
	summary organizer.SweepSummary
	err     error
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	StartedAt    time.Time
	WatchDir     string
	LockPath     string
	JournalPath  string
	Counts       map[string]int
	JournalStats map[journal.Outcome]int
	LastError    string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *journal.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and journal store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	notifier := notifications.NewService(cfg)
	org, err := organizer.New(cfg, store, notifier, logger)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		notifier: notifier,
		org:      org,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
		counts:   make(map[string]int),
	}, nil
}

// Organizer exposes the daemon's organizer for callers that run outside
// the event loop, such as one-shot CLI sweeps.
func (d *Daemon) Organizer() *organizer.Organizer {
	return d.org
}

// Start acquires the daemon lock, prepares the category directories, and
// launches the watch loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another tidy daemon instance is already running")
	}

	if err := d.org.EnsureCategoryDirs(); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	watch, err := watcher.New(d.cfg, d.logger)
	if err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := watch.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start watcher: %w", err)
	}

	d.watch = watch
	d.done = make(chan struct{})
	d.sweepReqs = make(chan sweepRequest)
	d.startedAt = time.Now()
	d.refreshCounts()
	d.running.Store(true)

	go d.run(d.ctx)

	d.logger.Info(
		"tidy daemon started",
		logging.String(logging.FieldPath, d.cfg.Paths.WatchDir),
		logging.String("lock", d.lockPath),
	)
	if err := d.notifier.NotifyWatchStarted(d.ctx, d.cfg.Paths.WatchDir); err != nil {
		d.logger.Warn("watch notification failed", logging.Error(err))
	}
	return nil
}

// Stop halts the watch loop and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if d.watch != nil {
		d.watch.Stop()
		d.watch = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("tidy daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// run is the single goroutine that organizes files. Watcher events,
// recount ticks, and sweep requests are all handled here in turn.
func (d *Daemon) run(ctx context.Context) {
	defer close(d.done)

	interval := time.Duration(d.cfg.Watcher.RecountInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if d.cfg.Organizer.SweepOnStart {
		if _, err := d.org.Sweep(ctx); err != nil {
			d.setLastError(err)
		}
		d.refreshCounts()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.watch.Events():
			if !ok {
				return
			}
			d.handleFile(ctx, event.Path)
		case req := <-d.sweepReqs:
			summary, err := d.org.Sweep(ctx)
			if err != nil {
				d.setLastError(err)
			}
			d.refreshCounts()
			req.reply <- sweepReply{summary: summary, err: err}
		case <-ticker.C:
			d.refreshCounts()
		}
	}
}

func (d *Daemon) handleFile(ctx context.Context, path string) {
	result, err := d.org.Organize(ctx, path)
	if err != nil {
		d.setLastError(err)
		return
	}
	if result.Outcome == journal.OutcomeMoved {
		d.mu.Lock()
		d.counts[result.Category]++
		d.mu.Unlock()
	}
}

// Sweep organizes the current watch directory backlog. When the event
// loop is running the request is handed to it so sweeps never race with
// watcher-driven moves.
func (d *Daemon) Sweep(ctx context.Context) (organizer.SweepSummary, error) {
	if !d.running.Load() {
		summary, err := d.org.Sweep(ctx)
		return summary, err
	}

	req := sweepRequest{reply: make(chan sweepReply, 1)}
	select {
	case d.sweepReqs <- req:
	case <-ctx.Done():
		return organizer.SweepSummary{}, ctx.Err()
	}
	select {
	case reply := <-req.reply:
		return reply.summary, reply.err
	case <-ctx.Done():
		return organizer.SweepSummary{}, ctx.Err()
	}
}

// Counts returns the per-category item counts. With refresh set, the
// directories are recounted before returning.
func (d *Daemon) Counts(refresh bool) (map[string]int, error) {
	if refresh || !d.running.Load() {
		if err := d.refreshCounts(); err != nil {
			return nil, err
		}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	counts := make(map[string]int, len(d.counts))
	for name, count := range d.counts {
		counts[name] = count
	}
	return counts, nil
}

func (d *Daemon) refreshCounts() error {
	counts, err := d.org.Counts()
	if err != nil {
		d.setLastError(err)
		return err
	}
	d.mu.Lock()
	d.counts = counts
	d.mu.Unlock()
	return nil
}

func (d *Daemon) setLastError(err error) {
	d.mu.Lock()
	d.lastError = err.Error()
	d.mu.Unlock()
}

// JournalList returns recent journal entries, optionally filtered by
// outcome.
func (d *Daemon) JournalList(ctx context.Context, limit int, outcomes []string) ([]*journal.Entry, error) {
	parsed := make([]journal.Outcome, 0, len(outcomes))
	for _, raw := range outcomes {
		outcome, ok := journal.ParseOutcome(raw)
		if !ok {
			return nil, fmt.Errorf("unknown outcome %q", raw)
		}
		parsed = append(parsed, outcome)
	}
	return d.store.Recent(ctx, limit, parsed...)
}

// JournalClear removes journal entries, optionally restricted to the
// given outcomes.
func (d *Daemon) JournalClear(ctx context.Context, outcomes []string) (int64, error) {
	parsed := make([]journal.Outcome, 0, len(outcomes))
	for _, raw := range outcomes {
		outcome, ok := journal.ParseOutcome(raw)
		if !ok {
			return 0, fmt.Errorf("unknown outcome %q", raw)
		}
		parsed = append(parsed, outcome)
	}
	return d.store.Clear(ctx, parsed...)
}

// TestNotification triggers a test notification using the current
// configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	counts, _ := d.Counts(false)
	stats, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.Warn("journal stats failed", logging.Error(err))
	}

	d.mu.RLock()
	lastError := d.lastError
	d.mu.RUnlock()

	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		StartedAt:    d.startedAt,
		WatchDir:     d.cfg.Paths.WatchDir,
		LockPath:     d.lockPath,
		JournalPath:  d.store.Path(),
		Counts:       counts,
		JournalStats: stats,
		LastError:    lastError,
	}
}
