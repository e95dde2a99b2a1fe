package ipc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidy/internal/config"
	"tidy/internal/daemon"
	"tidy/internal/journal"
	"tidy/internal/logging"
)

func newTestServer(t *testing.T) (*Client, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.WatchDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Watcher.SettleWindowMS = 50

	store, err := journal.OpenPath(filepath.Join(cfg.Paths.DataDir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}

	d, err := daemon.New(&cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	socket := filepath.Join(cfg.Paths.DataDir, "tidy.sock")
	server, err := NewServer(context.Background(), socket, d, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := Dial(socket)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, &cfg
}

func TestStatusRoundTrip(t *testing.T) {
	client, cfg := newTestServer(t)

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status.Running {
		t.Fatal("daemon should not report running")
	}
	if status.WatchDir != cfg.Paths.WatchDir {
		t.Fatalf("watch dir = %q, want %q", status.WatchDir, cfg.Paths.WatchDir)
	}
	if status.PID != os.Getpid() {
		t.Fatalf("pid = %d, want %d", status.PID, os.Getpid())
	}
}

func TestSweepAndCountsRoundTrip(t *testing.T) {
	client, cfg := newTestServer(t)

	if err := os.WriteFile(filepath.Join(cfg.Paths.WatchDir, "photo.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sweep, err := client.Sweep()
	if err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}
	if sweep.Moved != 1 {
		t.Fatalf("moved = %d, want 1", sweep.Moved)
	}

	counts, err := client.Counts(true)
	if err != nil {
		t.Fatalf("Counts returned error: %v", err)
	}
	if counts.Counts["images"] != 1 {
		t.Fatalf("images count = %d, want 1", counts.Counts["images"])
	}
}

func TestJournalRoundTrip(t *testing.T) {
	client, cfg := newTestServer(t)

	if err := os.WriteFile(filepath.Join(cfg.Paths.WatchDir, "song.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := client.Sweep(); err != nil {
		t.Fatalf("Sweep returned error: %v", err)
	}

	list, err := client.JournalList(10, []string{"moved"})
	if err != nil {
		t.Fatalf("JournalList returned error: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].Category != "audio" {
		t.Fatalf("unexpected journal entries: %+v", list.Entries)
	}

	if _, err := client.JournalList(10, []string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown outcome filter")
	}

	cleared, err := client.JournalClear(nil)
	if err != nil {
		t.Fatalf("JournalClear returned error: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("removed = %d, want 1", cleared.Removed)
	}
}

func TestStopInvokesShutdownCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WatchDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()

	store, err := journal.OpenPath(filepath.Join(cfg.Paths.DataDir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	d, err := daemon.New(&cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	shutdownCh := make(chan struct{})
	socket := filepath.Join(cfg.Paths.DataDir, "tidy.sock")
	server, err := NewServer(context.Background(), socket, d, func() { close(shutdownCh) }, logging.NewNop())
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	server.Serve()
	t.Cleanup(server.Close)

	client, err := Dial(socket)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	resp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
	if !resp.Stopped {
		t.Fatal("expected stopped response")
	}

	select {
	case <-shutdownCh:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown callback never invoked")
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	client, _ := newTestServer(t)

	resp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification returned error: %v", err)
	}
	if resp.Sent {
		t.Fatal("expected not sent when topic is unset")
	}
	if resp.Message != "ntfy topic not configured" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}
