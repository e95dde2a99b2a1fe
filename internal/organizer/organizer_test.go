package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidy/internal/config"
	"tidy/internal/faults"
	"tidy/internal/journal"
	"tidy/internal/logging"
)

type recordingNotifier struct {
	moveFailures []string
	sweeps       int
}

func (r *recordingNotifier) NotifyWatchStarted(context.Context, string) error { return nil }

func (r *recordingNotifier) NotifyMoveFailed(_ context.Context, sourcePath string, _ error) error {
	r.moveFailures = append(r.moveFailures, sourcePath)
	return nil
}

func (r *recordingNotifier) NotifySweepCompleted(context.Context, int, int, int, time.Duration) error {
	r.sweeps++
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func newTestOrganizer(t *testing.T) (*Organizer, string, *recordingNotifier) {
	t.Helper()
	watchDir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = watchDir

	notifier := &recordingNotifier{}
	org, err := New(&cfg, nil, notifier, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return org, watchDir, notifier
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestOrganizeMovesFileIntoCategory(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)
	source := filepath.Join(watchDir, "photo.jpg")
	writeFile(t, source, "image-bytes")

	result, err := org.Organize(context.Background(), source)
	if err != nil {
		t.Fatalf("Organize returned error: %v", err)
	}
	if result.Outcome != journal.OutcomeMoved {
		t.Fatalf("outcome = %q, want %q", result.Outcome, journal.OutcomeMoved)
	}
	if result.Category != "images" {
		t.Fatalf("category = %q, want images", result.Category)
	}

	want := filepath.Join(watchDir, "images", "photo.jpg")
	if result.FinalPath != want {
		t.Fatalf("final path = %q, want %q", result.FinalPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
	if _, err := os.Stat(source); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source still present after move: %v", err)
	}
}

func TestOrganizeSendsUnknownExtensionToFallback(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)
	source := filepath.Join(watchDir, "payload.xyz")
	writeFile(t, source, "data")

	result, err := org.Organize(context.Background(), source)
	if err != nil {
		t.Fatalf("Organize returned error: %v", err)
	}
	if result.Category != "others" {
		t.Fatalf("category = %q, want others", result.Category)
	}
	if _, err := os.Stat(filepath.Join(watchDir, "others", "payload.xyz")); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
}

func TestOrganizeSkipsExcludedFiles(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)
	source := filepath.Join(watchDir, "README.txt")
	writeFile(t, source, "notes")

	result, err := org.Organize(context.Background(), source)
	if err != nil {
		t.Fatalf("Organize returned error: %v", err)
	}
	if result.Outcome != journal.OutcomeSkipped {
		t.Fatalf("outcome = %q, want %q", result.Outcome, journal.OutcomeSkipped)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("excluded file should stay in place: %v", err)
	}
}

func TestOrganizeSkipsVanishedSourceAndDirectories(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)

	result, err := org.Organize(context.Background(), filepath.Join(watchDir, "gone.jpg"))
	if err != nil {
		t.Fatalf("Organize returned error for vanished file: %v", err)
	}
	if result.Outcome != journal.OutcomeSkipped {
		t.Fatalf("outcome = %q, want %q", result.Outcome, journal.OutcomeSkipped)
	}

	subdir := filepath.Join(watchDir, "projects")
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	result, err = org.Organize(context.Background(), subdir)
	if err != nil {
		t.Fatalf("Organize returned error for directory: %v", err)
	}
	if result.Outcome != journal.OutcomeSkipped {
		t.Fatalf("outcome = %q, want %q", result.Outcome, journal.OutcomeSkipped)
	}
}

func TestOrganizeSkipsFilesAlreadyInCategoryDirs(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)
	if err := org.EnsureCategoryDirs(); err != nil {
		t.Fatalf("EnsureCategoryDirs returned error: %v", err)
	}
	organized := filepath.Join(watchDir, "images", "photo.jpg")
	writeFile(t, organized, "image-bytes")

	result, err := org.Organize(context.Background(), organized)
	if err != nil {
		t.Fatalf("Organize returned error: %v", err)
	}
	if result.Outcome != journal.OutcomeSkipped {
		t.Fatalf("outcome = %q, want %q", result.Outcome, journal.OutcomeSkipped)
	}
	if _, err := os.Stat(organized); err != nil {
		t.Fatalf("organized file should stay in place: %v", err)
	}
}

func TestOrganizeAllocatesNumberedSiblingOnCollision(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)
	if err := org.EnsureCategoryDirs(); err != nil {
		t.Fatalf("EnsureCategoryDirs returned error: %v", err)
	}
	writeFile(t, filepath.Join(watchDir, "images", "photo.jpg"), "original")
	writeFile(t, filepath.Join(watchDir, "images", "photo-1.jpg"), "first sibling")

	source := filepath.Join(watchDir, "photo.jpg")
	writeFile(t, source, "incoming")

	result, err := org.Organize(context.Background(), source)
	if err != nil {
		t.Fatalf("Organize returned error: %v", err)
	}
	want := filepath.Join(watchDir, "images", "photo-2.jpg")
	if result.FinalPath != want {
		t.Fatalf("final path = %q, want %q", result.FinalPath, want)
	}
	original, err := os.ReadFile(filepath.Join(watchDir, "images", "photo.jpg"))
	if err != nil || string(original) != "original" {
		t.Fatalf("original destination was disturbed: %q, %v", original, err)
	}
}

func TestOrganizeOverwritesWhenConfigured(t *testing.T) {
	watchDir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = watchDir
	cfg.Organizer.OverwriteExisting = true

	org, err := New(&cfg, nil, &recordingNotifier{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := org.EnsureCategoryDirs(); err != nil {
		t.Fatalf("EnsureCategoryDirs returned error: %v", err)
	}
	writeFile(t, filepath.Join(watchDir, "images", "photo.jpg"), "original")
	source := filepath.Join(watchDir, "photo.jpg")
	writeFile(t, source, "incoming")

	result, err := org.Organize(context.Background(), source)
	if err != nil {
		t.Fatalf("Organize returned error: %v", err)
	}
	want := filepath.Join(watchDir, "images", "photo.jpg")
	if result.FinalPath != want {
		t.Fatalf("final path = %q, want %q", result.FinalPath, want)
	}
	content, err := os.ReadFile(want)
	if err != nil || string(content) != "incoming" {
		t.Fatalf("destination not overwritten: %q, %v", content, err)
	}
}

func TestOrganizeFailsWhenWatchDirMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WatchDir = filepath.Join(t.TempDir(), "never-created")

	org, err := New(&cfg, nil, &recordingNotifier{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = org.Organize(context.Background(), filepath.Join(cfg.Paths.WatchDir, "photo.jpg"))
	if !errors.Is(err, faults.ErrMissingRoot) {
		t.Fatalf("expected ErrMissingRoot, got %v", err)
	}
}

func TestOrganizeRecordsJournalEntries(t *testing.T) {
	watchDir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WatchDir = watchDir

	store, err := journal.OpenPath(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	org, err := New(&cfg, store, &recordingNotifier{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	source := filepath.Join(watchDir, "song.mp3")
	writeFile(t, source, "audio")
	if _, err := org.Organize(context.Background(), source); err != nil {
		t.Fatalf("Organize returned error: %v", err)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Outcome != journal.OutcomeMoved || entry.Category != "audio" {
		t.Fatalf("unexpected journal entry: %+v", entry)
	}
	if entry.RequestID == "" {
		t.Fatal("expected request id on journal entry")
	}
}

func TestEnsureCategoryDirsIsIdempotent(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)

	for i := 0; i < 2; i++ {
		if err := org.EnsureCategoryDirs(); err != nil {
			t.Fatalf("EnsureCategoryDirs pass %d returned error: %v", i+1, err)
		}
	}
	for _, name := range org.Table().Names() {
		info, err := os.Stat(filepath.Join(watchDir, name))
		if err != nil || !info.IsDir() {
			t.Fatalf("category dir %s missing: %v", name, err)
		}
	}
}

func TestCountsReflectCategoryContents(t *testing.T) {
	org, watchDir, _ := newTestOrganizer(t)
	if err := org.EnsureCategoryDirs(); err != nil {
		t.Fatalf("EnsureCategoryDirs returned error: %v", err)
	}
	writeFile(t, filepath.Join(watchDir, "images", "a.jpg"), "a")
	writeFile(t, filepath.Join(watchDir, "images", "b.png"), "b")
	writeFile(t, filepath.Join(watchDir, "documents", "c.pdf"), "c")

	counts, err := org.Counts()
	if err != nil {
		t.Fatalf("Counts returned error: %v", err)
	}
	if counts["images"] != 2 || counts["documents"] != 1 || counts["videos"] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	if _, err := org.CountItems("bogus"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestCountItemsMissingDirectoryIsZero(t *testing.T) {
	org, _, _ := newTestOrganizer(t)

	// No category directory exists yet.
	count, err := org.CountItems("videos")
	if err != nil {
		t.Fatalf("CountItems returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestSweepOrganizesBacklog(t *testing.T) {
	org, watchDir, notifier := newTestOrganizer(t)
	writeFile(t, filepath.Join(watchDir, "one.jpg"), "1")
	writeFile(t, filepath.Join(watchDir, "two.pdf"), "2")
	writeFile(t, filepath.Join(watchDir, "README.txt"), "keep")
	if err := os.Mkdir(filepath.Join(watchDir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	summary, err := org.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if summary.Moved != 2 {
		t.Fatalf("moved = %d, want 2", summary.Moved)
	}
	if summary.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", summary.Skipped)
	}
	if summary.Failed != 0 {
		t.Fatalf("failed = %d, want 0", summary.Failed)
	}
	if notifier.sweeps != 1 {
		t.Fatalf("sweep notifications = %d, want 1", notifier.sweeps)
	}
	if _, err := os.Stat(filepath.Join(watchDir, "README.txt")); err != nil {
		t.Fatalf("excluded file should survive sweep: %v", err)
	}
	if _, err := os.Stat(filepath.Join(watchDir, "nested")); err != nil {
		t.Fatalf("plain subdirectory should survive sweep: %v", err)
	}
}
