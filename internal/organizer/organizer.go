package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tidy/internal/classify"
	"tidy/internal/config"
	"tidy/internal/faults"
	"tidy/internal/fileutil"
	"tidy/internal/journal"
	"tidy/internal/logging"
	"tidy/internal/notifications"
)

// Journal records move attempts. *journal.Store satisfies it.
type Journal interface {
	Record(ctx context.Context, entry *journal.Entry) (*journal.Entry, error)
}

// Result describes the outcome of organizing a single path.
type Result struct {
	RequestID string
	Outcome   journal.Outcome
	Category  string
	FinalPath string
	Detail    string
}

// SweepSummary aggregates the results of a full sweep of the watch
// directory.
type SweepSummary struct {
	Moved    int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Organizer places files into category subdirectories of the watch
// directory.
type Organizer struct {
	cfg      *config.Config
	table    *classify.Table
	journal  Journal
	notifier notifications.Service
	logger   *slog.Logger
	excluded map[string]struct{}
}

// New constructs an Organizer from configuration. The journal and
// notifier are optional.
func New(cfg *config.Config, jrnl Journal, notifier notifications.Service, logger *slog.Logger) (*Organizer, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	excluded := make(map[string]struct{}, len(cfg.Organizer.ExcludedFiles))
	for _, name := range cfg.Organizer.ExcludedFiles {
		name = strings.TrimSpace(name)
		if name != "" {
			excluded[name] = struct{}{}
		}
	}
	return &Organizer{
		cfg:      cfg,
		table:    table,
		journal:  jrnl,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "organizer"),
		excluded: excluded,
	}, nil
}

// Table exposes the category table in effect.
func (o *Organizer) Table() *classify.Table {
	return o.table
}

// Excluded reports whether the base name of path is exempt from
// organization.
func (o *Organizer) Excluded(path string) bool {
	_, ok := o.excluded[filepath.Base(path)]
	return ok
}

// EnsureCategoryDirs creates every category subdirectory under the
// watch directory. Existing directories are left untouched.
func (o *Organizer) EnsureCategoryDirs() error {
	watchDir, err := o.watchRoot()
	if err != nil {
		return err
	}
	for _, name := range o.table.Names() {
		dir := filepath.Join(watchDir, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return faults.Wrap(faults.ErrDirectoryCreate, "organizer", "ensure category dir", "Failed to create "+dir, err)
		}
	}
	return nil
}

// Organize classifies path and moves it into its category directory.
// Excluded files, directories, and files that vanished before the move
// are skipped rather than failed.
func (o *Organizer) Organize(ctx context.Context, path string) (Result, error) {
	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, o.logger)

	watchDir, err := o.watchRoot()
	if err != nil {
		logger.Warn("watch directory unavailable", logging.String(logging.FieldPath, path), logging.Error(err))
		return Result{RequestID: requestID}, err
	}

	base := filepath.Base(path)
	if o.Excluded(path) {
		return o.skip(ctx, requestID, path, "excluded by configuration", logger)
	}
	if o.insideCategoryDir(watchDir, path) {
		return o.skip(ctx, requestID, path, "already organized", logger)
	}

	info, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return o.skip(ctx, requestID, path, "source vanished", logger)
	}
	if err != nil {
		return o.fail(ctx, requestID, path, "", "", "stat source", err, logger)
	}
	if info.IsDir() {
		return o.skip(ctx, requestID, path, "directory", logger)
	}
	if !info.Mode().IsRegular() {
		return o.skip(ctx, requestID, path, "not a regular file", logger)
	}

	category := o.table.Classify(base)
	categoryDir := filepath.Join(watchDir, category)
	if err := os.MkdirAll(categoryDir, 0o755); err != nil {
		wrapped := faults.Wrap(faults.ErrDirectoryCreate, "organizer", "ensure category dir", "Failed to create "+categoryDir, err)
		return o.fail(ctx, requestID, path, category, "", "create category dir", wrapped, logger)
	}

	target := filepath.Join(categoryDir, base)
	if !o.cfg.Organizer.OverwriteExisting {
		target, err = o.allocateTarget(categoryDir, base)
		if err != nil {
			wrapped := faults.Wrap(faults.ErrTransient, "organizer", "allocate target", "Unable to allocate destination filename", err)
			return o.fail(ctx, requestID, path, category, "", "allocate target", wrapped, logger)
		}
	}

	if err := fileutil.MoveFile(path, target); err != nil {
		wrapped := faults.Wrap(faults.ErrMoveFailed, "organizer", "move file", "Failed to move "+base+" into "+category, err)
		return o.fail(ctx, requestID, path, category, target, "move file", wrapped, logger)
	}

	logger.Info(
		"file organized",
		logging.String(logging.FieldPath, path),
		logging.String(logging.FieldCategory, category),
		logging.String("final_path", target),
	)
	result := Result{
		RequestID: requestID,
		Outcome:   journal.OutcomeMoved,
		Category:  category,
		FinalPath: target,
	}
	o.record(ctx, &journal.Entry{
		RequestID:  requestID,
		SourcePath: path,
		DestPath:   target,
		Category:   category,
		Outcome:    journal.OutcomeMoved,
	}, logger)
	return result, nil
}

// Sweep organizes every top-level entry currently in the watch
// directory. Category directories themselves are left alone.
func (o *Organizer) Sweep(ctx context.Context) (SweepSummary, error) {
	started := time.Now()
	summary := SweepSummary{}

	watchDir, err := o.watchRoot()
	if err != nil {
		return summary, err
	}
	if err := o.EnsureCategoryDirs(); err != nil {
		return summary, err
	}

	entries, err := os.ReadDir(watchDir)
	if err != nil {
		return summary, faults.Wrap(faults.ErrTransient, "organizer", "read watch dir", "Failed to list watch directory", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		result, err := o.Organize(ctx, filepath.Join(watchDir, entry.Name()))
		switch {
		case err != nil:
			summary.Failed++
		case result.Outcome == journal.OutcomeMoved:
			summary.Moved++
		default:
			summary.Skipped++
		}
	}

	summary.Duration = time.Since(started)
	o.logger.Info(
		"sweep completed",
		logging.Int("moved", summary.Moved),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("duration", summary.Duration),
	)
	if notifyErr := o.notifier.NotifySweepCompleted(ctx, summary.Moved, summary.Skipped, summary.Failed, summary.Duration); notifyErr != nil {
		o.logger.Warn("sweep notification failed", logging.Error(notifyErr))
	}
	return summary, nil
}

// CountItems returns the number of entries directly inside the named
// category directory. A missing directory counts as zero.
func (o *Organizer) CountItems(category string) (int, error) {
	if !o.table.Contains(category) {
		return 0, fmt.Errorf("unknown category %q", category)
	}
	watchDir, err := o.watchRoot()
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(filepath.Join(watchDir, category))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, faults.Wrap(faults.ErrTransient, "organizer", "count items", "Failed to list "+category, err)
	}
	return len(entries), nil
}

// Counts returns the per-category item counts for every category.
func (o *Organizer) Counts() (map[string]int, error) {
	counts := make(map[string]int, len(o.table.Names()))
	for _, name := range o.table.Names() {
		count, err := o.CountItems(name)
		if err != nil {
			return nil, err
		}
		counts[name] = count
	}
	return counts, nil
}

func (o *Organizer) watchRoot() (string, error) {
	watchDir := strings.TrimSpace(o.cfg.Paths.WatchDir)
	if watchDir == "" {
		return "", faults.Wrap(
			faults.ErrMissingRoot,
			"organizer",
			"resolve watch dir",
			"Watch directory not configured; set watch_dir in your tidy config.toml",
			nil,
		)
	}
	info, err := os.Stat(watchDir)
	if errors.Is(err, os.ErrNotExist) {
		return "", faults.Wrap(faults.ErrMissingRoot, "organizer", "resolve watch dir", "Watch directory does not exist: "+watchDir, nil)
	}
	if err != nil {
		return "", faults.Wrap(faults.ErrTransient, "organizer", "resolve watch dir", "Failed to stat watch directory", err)
	}
	if !info.IsDir() {
		return "", faults.Wrap(faults.ErrMissingRoot, "organizer", "resolve watch dir", "Watch path is not a directory: "+watchDir, nil)
	}
	return watchDir, nil
}

func (o *Organizer) insideCategoryDir(watchDir, path string) bool {
	rel, err := filepath.Rel(watchDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	first := rel
	if idx := strings.IndexByte(rel, filepath.Separator); idx >= 0 {
		first = rel[:idx]
	} else {
		return false
	}
	return o.table.Contains(first)
}

// allocateTarget returns dir/base when free, otherwise the first
// stem-N.ext sibling that does not exist yet.
func (o *Organizer) allocateTarget(dir, base string) (string, error) {
	candidate := filepath.Join(dir, base)
	if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
		return candidate, nil
	} else if err != nil {
		return "", err
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = base
		ext = ""
	}

	const maxAttempts = 10000
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		name := fmt.Sprintf("%s-%d%s", stem, attempt, ext)
		candidate := filepath.Join(dir, name)
		if _, err := os.Lstat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return candidate, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("exhausted filename slots for %s in %s", base, dir)
}

func (o *Organizer) skip(ctx context.Context, requestID, path, detail string, logger *slog.Logger) (Result, error) {
	logger.Debug(
		"skipping file",
		logging.String(logging.FieldPath, path),
		logging.String("reason", detail),
	)
	result := Result{
		RequestID: requestID,
		Outcome:   journal.OutcomeSkipped,
		Detail:    detail,
	}
	o.record(ctx, &journal.Entry{
		RequestID:  requestID,
		SourcePath: path,
		Outcome:    journal.OutcomeSkipped,
		Detail:     detail,
	}, logger)
	return result, nil
}

func (o *Organizer) fail(ctx context.Context, requestID, path, category, target, operation string, err error, logger *slog.Logger) (Result, error) {
	logger.Error(
		"organize failed",
		logging.String(logging.FieldPath, path),
		logging.String("operation", operation),
		logging.Error(err),
	)
	result := Result{
		RequestID: requestID,
		Outcome:   journal.OutcomeFailed,
		Category:  category,
		Detail:    operation,
	}
	o.record(ctx, &journal.Entry{
		RequestID:    requestID,
		SourcePath:   path,
		DestPath:     target,
		Category:     category,
		Outcome:      journal.OutcomeFailed,
		Detail:       operation,
		ErrorMessage: err.Error(),
	}, logger)
	if notifyErr := o.notifier.NotifyMoveFailed(ctx, path, err); notifyErr != nil {
		logger.Warn("move failure notification failed", logging.Error(notifyErr))
	}
	return result, err
}

func (o *Organizer) record(ctx context.Context, entry *journal.Entry, logger *slog.Logger) {
	if o.journal == nil {
		return
	}
	if _, err := o.journal.Record(ctx, entry); err != nil {
		logger.Warn("journal record failed", logging.Error(err))
	}
}
